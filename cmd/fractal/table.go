package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/olekukonko/tablewriter"

	"github.com/rkulik/fractal/pkg/engine"
)

// writeTable renders the items of a resolved document as table rows. Nested
// values are written as compact JSON.
func writeTable(w io.Writer, out map[string]any, key string) error {
	rows := tableRows(out, key)

	columns := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			columns[k] = struct{}{}
		}
	}
	headers := slices.Sorted(maps.Keys(columns))

	table := tablewriter.NewWriter(w)
	table.Header(headers)

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cell, err := formatCell(row[h])
			if err != nil {
				return err
			}
			cells[i] = cell
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}

	return table.Render()
}

// tableRows finds the rendered items: the envelope under the resource key or
// "data", or the document itself when items are not wrapped.
func tableRows(out map[string]any, key string) []map[string]any {
	for _, k := range []string{key, "data"} {
		if k == "" {
			continue
		}
		switch x := out[k].(type) {
		case []any:
			rows := make([]map[string]any, 0, len(x))
			for _, v := range x {
				if m, ok := v.(map[string]any); ok {
					rows = append(rows, m)
				}
			}
			return rows
		case map[string]any:
			return []map[string]any{x}
		}
	}

	row := maps.Clone(out)
	delete(row, "meta")
	return []map[string]any{row}
}

func formatCell(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case map[string]any, []any:
		return engine.MarshalJSON(x, 0)
	}
	return fmt.Sprint(v), nil
}
