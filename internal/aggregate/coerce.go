package aggregate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dayFirstLayouts follow the Brazilian export convention: 05/03/2024 is
// 5 March. ISO forms are accepted as a fallback since re-exported files
// sometimes carry them.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/06",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses an issue-date cell with the day-first convention.
// Unparseable values are nulls, never errors.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dayFirstLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMoney parses a monetary cell into an exact decimal. It tolerates
// an "R$" prefix and auto-detects the decimal separator, so both
// "1.234,56" and "1,234.56" come out as 1234.56.
func ParseMoney(s string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "R$")
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}

	dec := byte('.')
	var thou byte
	cpos := strings.LastIndexByte(raw, ',')
	dpos := strings.LastIndexByte(raw, '.')
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			dec, thou = ',', '.'
		} else {
			dec, thou = '.', ','
		}
	case cpos >= 0:
		dec = ','
	}
	if thou == 0 {
		for _, sep := range []byte{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else {
		raw = strings.ReplaceAll(raw, string(thou), "")
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
