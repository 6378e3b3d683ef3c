package adbonus

import "errors"

var (
	ErrUnknownCategory = errors.New("adbonus: unknown category")
	ErrLedgerNotFound  = errors.New("adbonus: ledger not found")
)
