package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// hiddenColumns are omitted from table output.
var hiddenColumns = map[string]bool{"tenant_id": true, "description": true, "details": true}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders records as a table. Columns are the union of record
// keys, with id first.
func printTable(w io.Writer, records []map[string]any) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}

	seen := map[string]bool{}
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] && !hiddenColumns[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "id" || cols[j] == "id" {
			return cols[i] == "id"
		}
		return cols[i] < cols[j]
	})

	tbl := table.New().
		Headers(cols...).
		Border(lipgloss.Border{Top: "─", Middle: "─", MiddleLeft: "─", MiddleRight: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(borderStyle)
	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cell(rec[c])
		}
		tbl.Row(row...)
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = cell(p)
		}
		return strings.Join(parts, ",")
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
