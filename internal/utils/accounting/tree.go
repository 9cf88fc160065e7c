package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountTree is the chart of accounts indexed for group roll-ups.
type AccountTree struct {
	accounts map[string]domain.Account
	children map[string][]string
	roots    []string
}

// NewAccountTree indexes the chart. It fails on duplicate ids, dangling parents and cycles.
func NewAccountTree(accounts []domain.Account) (*AccountTree, error) {
	t := &AccountTree{
		accounts: make(map[string]domain.Account, len(accounts)),
		children: make(map[string][]string),
	}
	for _, a := range accounts {
		if _, dup := t.accounts[a.AccountID]; dup {
			return nil, fmt.Errorf("duplicate account id %s", a.AccountID)
		}
		t.accounts[a.AccountID] = a
	}
	for _, a := range accounts {
		if a.ParentAccountID == "" {
			t.roots = append(t.roots, a.AccountID)
			continue
		}
		if _, ok := t.accounts[a.ParentAccountID]; !ok {
			return nil, fmt.Errorf("account %s has unknown parent %s", a.AccountID, a.ParentAccountID)
		}
		t.children[a.ParentAccountID] = append(t.children[a.ParentAccountID], a.AccountID)
	}
	for id := range t.accounts {
		if err := t.checkAncestry(id); err != nil {
			return nil, err
		}
	}
	sort.Strings(t.roots)
	for _, ids := range t.children {
		sort.Strings(ids)
	}
	return t, nil
}

func (t *AccountTree) checkAncestry(id string) error {
	seen := map[string]bool{id: true}
	for cur := t.accounts[id].ParentAccountID; cur != ""; cur = t.accounts[cur].ParentAccountID {
		if seen[cur] {
			return fmt.Errorf("account %s is part of a parent cycle", id)
		}
		seen[cur] = true
	}
	return nil
}

// Account looks up one account.
func (t *AccountTree) Account(id string) (domain.Account, bool) {
	a, ok := t.accounts[id]
	return a, ok
}

// Accounts returns every account sorted by id.
func (t *AccountTree) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(t.accounts))
	for _, a := range t.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// Children returns the direct children of id, sorted by id.
func (t *AccountTree) Children(id string) []domain.Account {
	ids := t.children[id]
	out := make([]domain.Account, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.accounts[cid])
	}
	return out
}

// Roots returns the top level accounts of the given type.
func (t *AccountTree) Roots(accountType domain.AccountType) []domain.Account {
	var out []domain.Account
	for _, id := range t.roots {
		if a := t.accounts[id]; a.AccountType == accountType {
			out = append(out, a)
		}
	}
	return out
}

// Walk visits id and its descendants depth first, parents before children.
func (t *AccountTree) Walk(id string, fn func(a domain.Account, depth int)) {
	t.walk(id, 0, fn)
}

func (t *AccountTree) walk(id string, depth int, fn func(domain.Account, int)) {
	a, ok := t.accounts[id]
	if !ok {
		return
	}
	fn(a, depth)
	for _, cid := range t.children[id] {
		t.walk(cid, depth+1, fn)
	}
}

// RawBalance returns the debit-positive balance of id. Groups are the sum of
// their children; entries posted directly against a group are ignored.
func (t *AccountTree) RawBalance(id string, raw map[string]decimal.Decimal) decimal.Decimal {
	a, ok := t.accounts[id]
	if !ok {
		return decimal.Zero
	}
	if !a.IsGroup {
		return raw[id]
	}
	sum := decimal.Zero
	for _, cid := range t.children[id] {
		sum = sum.Add(t.RawBalance(cid, raw))
	}
	return sum
}

// DisplayBalance is RawBalance with the sign convention of the account's type.
func (t *AccountTree) DisplayBalance(id string, raw map[string]decimal.Decimal) decimal.Decimal {
	a, ok := t.accounts[id]
	if !ok {
		return decimal.Zero
	}
	return DisplayBalance(a.AccountType, t.RawBalance(id, raw))
}

// NetIncome is -Σraw(income) - Σraw(expenses) over postable accounts.
func (t *AccountTree) NetIncome(raw map[string]decimal.Decimal) decimal.Decimal {
	net := decimal.Zero
	for id, a := range t.accounts {
		if a.IsGroup {
			continue
		}
		switch a.AccountType {
		case domain.Income, domain.Expenses:
			net = net.Sub(raw[id])
		}
	}
	return net
}
