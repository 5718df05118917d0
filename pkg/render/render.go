// Package render turns a classified display state into a view tree.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/app-sre/gabi-console/pkg/display"
	"github.com/app-sre/gabi-console/pkg/view"
)

const (
	LoadingText   = "Processing query..."
	ErrorTitle    = "Execution error"
	NoDataNote    = "(No data to display)"
	NullText      = "NULL"
	StatusSuccess = "success"

	spinner = "⏳"
)

// Render builds the tree for a state. It only reads its argument, so the
// same state always produces an equal tree.
func Render(s display.State) *view.Node {
	switch s.Kind {
	case display.KindLoading:
		return view.Element(view.KindInfo,
			view.Leaf(view.KindSpinner, spinner),
			view.Leaf(view.KindText, LoadingText),
		)
	case display.KindError:
		return view.Element(view.KindAlert,
			view.Leaf(view.KindTitle, ErrorTitle),
			view.Leaf(view.KindText, s.Message),
		)
	case display.KindEmptySuccess:
		return view.Element(view.KindSuccess,
			view.Leaf(view.KindText, s.Message),
			view.Leaf(view.KindNote, NoDataNote),
		)
	case display.KindTable:
		return table(s.Columns, s.Rows)
	default:
		return view.Element(view.KindAlert,
			view.Leaf(view.KindTitle, ErrorTitle),
			view.Leaf(view.KindText, display.DefaultErrorText),
		)
	}
}

func table(columns []string, rows [][]any) *view.Node {
	header := view.Element(view.KindHeader)
	for _, c := range columns {
		header.Children = append(header.Children, view.Leaf(view.KindHeaderCell, c))
	}

	body := view.Element(view.KindBody)
	for _, r := range rows {
		row := view.Element(view.KindRow)
		for i := range columns {
			row.Children = append(row.Children, cell(r, i))
		}
		body.Children = append(body.Children, row)
	}

	footer := view.Element(view.KindFooter,
		view.Leaf(view.KindText, "Status: "+StatusSuccess),
		view.Leaf(view.KindText, "Total: "+strconv.Itoa(len(rows))),
	)

	return view.Element(view.KindResult,
		view.Element(view.KindTable, header, body),
		footer,
	)
}

// cell renders position i of a row. Short rows are padded with NULL and
// values beyond the last column are never reached.
func cell(row []any, i int) *view.Node {
	if i >= len(row) || row[i] == nil {
		return view.Leaf(view.KindPlaceholder, NullText)
	}
	return view.Leaf(view.KindCell, Value(row[i]))
}

// Value formats a single non-null scalar for display.
func Value(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []byte:
		return string(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
