package types

import (
	"math"
	"strings"

	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"github.com/shopspring/decimal"
)

// parseDecimal parses an exchange decimal string. Empty input reports ok=false
// with a nil error; anything that is not a finite number is an error.
func parseDecimal(field, value string) (decimal.Decimal, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, false, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "%s is not a number: %q", field, value)
	}

	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, false, errors.Newf(errors.ErrCodeDataIntegrity, "%s is out of range: %q", field, value)
	}

	return d, true, nil
}

// requireFloat parses a field that must be present.
func requireFloat(field, value string) (float64, error) {
	d, ok, err := parseDecimal(field, value)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, errors.Newf(errors.ErrCodeDataIntegrity, "%s is missing", field)
	}

	return d.InexactFloat64(), nil
}

// floatOr parses an optional field, returning fallback when it is absent.
func floatOr(field, value string, fallback float64) (float64, error) {
	d, ok, err := parseDecimal(field, value)
	if err != nil {
		return 0, err
	}

	if !ok {
		return fallback, nil
	}

	return d.InexactFloat64(), nil
}

// DisplaySymbol strips the USDT quote suffix: BTCUSDT becomes BTC.
func DisplaySymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if trimmed, ok := strings.CutSuffix(symbol, "USDT"); ok && trimmed != "" {
		return trimmed
	}

	return symbol
}
