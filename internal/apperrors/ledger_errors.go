package apperrors

import "errors"

// Posting and reassignment failures. Each message names the rule that was broken
// so it can be shown to an operator as-is.
var (
	ErrInvalidAmount            = errors.New("invalid amount: USD amount must be a finite number greater than zero")
	ErrUnknownAccount           = errors.New("unknown account: account id is not in the chart of accounts")
	ErrNotPostable              = errors.New("account not postable: group accounts and non-asset source accounts cannot be posted to")
	ErrClientRequiredForOutflow = errors.New("client required for outflow: outflows must debit a client account")
	ErrRecordAlreadyAssigned    = errors.New("record already assigned: a client has already been attached to this record")
	ErrOriginalEntryNotFound    = errors.New("original entry not found: no suspense credit entry exists for this record")
	ErrUnknownClient            = errors.New("unknown client: client id is not registered")
	ErrInvalidRecord            = errors.New("invalid record: record kind, flow type or id is missing or unsupported")
	ErrUnbalancedEntry          = errors.New("unbalanced entry: debit and credit must differ in account and match in amount")
	ErrInvalidChart             = errors.New("invalid chart of accounts")
)
