package shell

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderTable formats rows as an aligned text table with a header row and a
// separator. Column widths account for wide runes (CJK and friends).
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}

	var b strings.Builder

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}

			b.WriteString(cell)

			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}

		b.WriteString("\n")
	}

	writeRow(headers)

	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = strings.Repeat("-", widths[i])
	}

	writeRow(separators)

	for _, row := range rows {
		writeRow(row)
	}

	return b.String()
}

// formatValue renders one result value for display.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []byte:
		return "x'" + hex.EncodeToString(v) + "'"
	default:
		return fmt.Sprint(v)
	}
}
