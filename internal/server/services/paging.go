package services

import (
	"fmt"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/shopspring/decimal"
)

// Page is an offset/limit window. A zero Limit means common.DefaultPageLimit.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) normalize() (Page, error) {
	if p.Offset < 0 {
		return p, fmt.Errorf("%w: offset must not be negative", common.ErrorInvalidInput)
	}
	if p.Limit == 0 {
		p.Limit = common.DefaultPageLimit
	}
	if p.Limit < 1 || p.Limit > common.MaxPageLimit {
		return p, fmt.Errorf("%w: limit must be between 1 and %d", common.ErrorInvalidInput, common.MaxPageLimit)
	}
	return p, nil
}

// moneyScale is the number of fractional digits the ledger stores.
const moneyScale = 2

// moneyLimit is the exclusive upper bound of a NUMERIC(10,2) column.
var moneyLimit = decimal.New(1, 8)

func validateMoney(name string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(moneyScale)) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", common.ErrorInvalidInput, name, moneyScale)
	}
	if !v.LessThan(moneyLimit) {
		return fmt.Errorf("%w: %s must be less than %s", common.ErrorInvalidInput, name, moneyLimit.String())
	}
	return nil
}
