// Package export renders ledger reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	balanceSheetName = "Balance Sheet"
	trialBalanceName = "Trial Balance"
	dateLayout       = "2006-01-02 15:04"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
	err   error
}

func newSheet(f *excelize.File, name string, first bool) (*sheetWriter, error) {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name, bold: bold}, nil
}

// line writes values into the next row. Decimals become numbers.
func (w *sheetWriter) line(bold bool, values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			w.err = err
			return
		}
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
	}
	if bold && len(values) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(values), w.row)
		start, _ := excelize.CoordinatesToCellName(1, w.row)
		w.err = w.f.SetCellStyle(w.sheet, start, last, w.bold)
	}
}

func (w *sheetWriter) blank() { w.row++ }

func indent(a domain.AccountAmount) string {
	return strings.Repeat("  ", a.Depth) + a.Name
}

// WriteBalanceSheet writes the report as a one sheet workbook.
func WriteBalanceSheet(out io.Writer, report *domain.BalanceSheetReport) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheet(f, balanceSheetName, true)
	if err != nil {
		return err
	}
	title := "Balance Sheet"
	if report.AsOf != nil {
		title += " as of " + report.AsOf.UTC().Format(dateLayout)
	}
	w.line(true, title)
	if report.PeriodStart != nil {
		w.line(false, "Period start", report.PeriodStart.UTC().Format(dateLayout))
	}

	sections := []struct {
		heading string
		lines   []domain.AccountAmount
		total   decimal.Decimal
	}{
		{"Assets", report.Assets, report.TotalAssets},
		{"Liabilities", report.Liabilities, report.TotalLiabilities},
		{"Equity", report.Equity, report.TotalEquity},
	}
	for _, sec := range sections {
		w.blank()
		w.line(true, sec.heading, "Account", "Amount (USD)")
		for _, a := range sec.lines {
			w.line(a.IsGroup, indent(a), a.AccountID, a.Amount)
		}
		w.line(true, "Total "+sec.heading, "", sec.total)
	}
	w.blank()
	w.line(true, "Liabilities + Equity", "", report.TotalLiabilities.Add(report.TotalEquity))
	if w.err != nil {
		return fmt.Errorf("failed to build balance sheet workbook: %w", w.err)
	}
	_ = f.SetColWidth(balanceSheetName, "A", "A", 40)
	return f.Write(out)
}

// WriteTrialBalance writes one row per account plus totals.
func WriteTrialBalance(out io.Writer, report *domain.TrialBalanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheet(f, trialBalanceName, true)
	if err != nil {
		return err
	}
	w.line(true, "Account", "Name", "Type", "Debit", "Credit")
	for _, r := range report.Rows {
		w.line(false, r.AccountID, r.AccountName, string(r.AccountType), r.Debit, r.Credit)
	}
	w.line(true, "Total", "", "", report.TotalDebit, report.TotalCredit)
	if w.err != nil {
		return fmt.Errorf("failed to build trial balance workbook: %w", w.err)
	}
	_ = f.SetColWidth(trialBalanceName, "B", "B", 32)
	return f.Write(out)
}
