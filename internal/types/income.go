package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Income types that make up the 24h PnL figure.
const (
	IncomeTypeRealizedPnl    = "REALIZED_PNL"
	IncomeTypeFundingFee     = "FUNDING_FEE"
	IncomeTypeCommission     = "COMMISSION"
	IncomeTypeInsuranceClear = "INSURANCE_CLEAR"
)

// PnLIncomeTypes is the set of income types summed into the 24h PnL.
var PnLIncomeTypes = map[string]struct{}{
	IncomeTypeRealizedPnl:    {},
	IncomeTypeFundingFee:     {},
	IncomeTypeCommission:     {},
	IncomeTypeInsuranceClear: {},
}

// IncomeRecord is one income history entry.
type IncomeRecord struct {
	Symbol     string
	IncomeType string
	Income     string
	// Time in milliseconds.
	Time optional.Option[int64]
}

// Amount parses the income value. An absent value counts as zero.
func (r IncomeRecord) Amount() (decimal.Decimal, error) {
	d, _, err := parseDecimal("income", r.Income)

	return d, err
}
