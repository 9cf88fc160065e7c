// Package intake turns loosely typed records from collaborators (forms, SMS
// parsers, chain sync jobs) into the canonical domain.Record the posting
// engine accepts.
package intake

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fields after key folding, see foldKey.
const (
	keyRecordID   = "id"
	keyRecordID2  = "recordid"
	keyType       = "type"
	keyFlowType   = "flowtype"
	keyAmount     = "amount"
	keyCurrency   = "currency"
	keyAmountUSD  = "amountusd"
	keyAccountID  = "accountid"
	keyClientID   = "clientid"
	keyClientName = "clientname"
	keyDate       = "date"
	keyRecordDate = "recorddate"
	keyNotes      = "notes"
)

type record struct {
	RecordID   string  `validate:"omitempty,max=64,excludesall=/"`
	FlowType   string  `validate:"required,oneof=inflow outflow"`
	Currency   string  `validate:"required,max=8"`
	AccountID  string  `validate:"required,max=64"`
	ClientID   *string `validate:"omitempty,max=64"`
	ClientName string  `validate:"max=200"`
	Notes      string  `validate:"max=2000"`
}

// Normalize maps raw fields onto a record of the given kind. Keys are matched
// ignoring case and underscores, so amountUsd, amountusd and amount_usd are
// the same field. An empty client id means no client.
func Normalize(kind domain.RecordKind, raw map[string]any) (domain.Record, error) {
	if !kind.Valid() {
		return domain.Record{}, fmt.Errorf("%w: unknown record kind %q", apperrors.ErrInvalidRecord, kind)
	}
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if v != nil {
			fields[foldKey(k)] = v
		}
	}

	r := record{
		RecordID:   str(first(fields, keyRecordID, keyRecordID2)),
		FlowType:   strings.ToLower(str(first(fields, keyType, keyFlowType))),
		Currency:   strings.ToUpper(str(fields[keyCurrency])),
		AccountID:  str(fields[keyAccountID]),
		ClientName: str(fields[keyClientName]),
		Notes:      str(fields[keyNotes]),
	}
	if id := str(fields[keyClientID]); id != "" {
		r.ClientID = &id
	}
	if r.Currency == "" {
		r.Currency = defaultCurrency(kind)
	}
	if err := validate.Struct(r); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidRecord, describe(err))
	}

	amountUSD, ok, err := amount(fields[keyAmountUSD])
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: amountUsd %v", apperrors.ErrInvalidAmount, err)
	}
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: amountUsd is required", apperrors.ErrInvalidAmount)
	}
	native, ok, err := amount(fields[keyAmount])
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: amount %v", apperrors.ErrInvalidAmount, err)
	}
	if !ok {
		native = amountUSD
	}

	var date time.Time
	if v := first(fields, keyDate, keyRecordDate); v != nil && str(v) != "" {
		date, err = cast.ToTimeE(v)
		if err != nil {
			return domain.Record{}, fmt.Errorf("%w: date %q is not a valid time", apperrors.ErrInvalidRecord, str(v))
		}
	}

	return domain.Record{
		RecordID:     r.RecordID,
		Kind:         kind,
		FlowType:     domain.FlowType(r.FlowType),
		Amount:       native,
		CurrencyCode: r.Currency,
		AmountUSD:    amountUSD,
		AccountID:    r.AccountID,
		ClientID:     r.ClientID,
		ClientName:   r.ClientName,
		RecordDate:   date.UTC(),
		Notes:        r.Notes,
	}, nil
}

func foldKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(k))
}

func first(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func defaultCurrency(kind domain.RecordKind) string {
	if kind == domain.USDTRecord {
		return "USDT"
	}
	return domain.USD
}

// amount parses numbers and numeric strings. ok is false when the field is absent or blank.
func amount(v any) (decimal.Decimal, bool, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return n, true, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false, errors.New("is not a finite number")
		}
		return decimal.NewFromFloat(n), true, nil
	case float32:
		return amount(float64(n))
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("has unsupported type %T", v)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%q is not a number", s)
	}
	return d, true, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}
