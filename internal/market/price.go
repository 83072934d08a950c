package market

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount resolves a raw JSON value into a whole-number amount. Numbers
// and numeric strings are accepted; fractional amounts are truncated toward
// zero. Null, missing, non-numeric, negative, or values beyond int64 report
// false.
func ParseAmount(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	whole := d.Truncate(0).BigInt()
	if !whole.IsInt64() {
		return 0, false
	}
	return whole.Int64(), true
}

// AmountPtr is ParseAmount returning nil when the value is unresolvable.
func AmountPtr(raw json.RawMessage) *int64 {
	v, ok := ParseAmount(raw)
	if !ok {
		return nil
	}
	return &v
}
