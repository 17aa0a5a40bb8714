package view

import (
	"fmt"
	"strconv"

	"github.com/nimdanitro/sensorview/pkg/telemetry"
)

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// rows lays records out under columns. Keys a record lacks render empty and
// keys absent from columns are not shown.
func rows(records []*telemetry.Flat, columns []string) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			v, _ := r.Get(c)
			row[i] = formatCell(v)
		}
		out = append(out, row)
	}
	return out
}

func footer(s State) string {
	return fmt.Sprintf("Page %d of %d · %d readings · %d devices",
		s.Page+1, max(s.PageCount(), 1), len(s.Records), len(s.Devices))
}
