package common

import (
	"fmt"
	"strconv"
)

// FormatArea renders an area value in square metres with two decimals.
// Non-numeric values are printed as-is.
func FormatArea(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f m²", n)
	case int:
		return fmt.Sprintf("%.2f m²", float64(n))
	case int64:
		return fmt.Sprintf("%.2f m²", float64(n))
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return fmt.Sprintf("%.2f m²", f)
		}
		return n
	case nil:
		return ""
	default:
		return fmt.Sprint(n)
	}
}
