package pager

import (
	"fmt"
	"strconv"
)

// FormatValue renders a row value as the literal string used for allow-set
// membership. Filter values entered by the user are plain text, so numeric
// and boolean cell values are normalized the same way before comparison.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// JSON numbers decode as float64; render integers without a decimal
		// point so "42" matches a cell holding 42.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
