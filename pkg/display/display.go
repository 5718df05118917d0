// Package display classifies query responses into the state shown by the
// console.
package display

import "github.com/app-sre/gabi-console/pkg/models"

const (
	DefaultSuccessText = "Query executed successfully."
	DefaultErrorText   = "Query execution failed."
)

type Kind int

const (
	KindLoading Kind = iota
	KindError
	KindEmptySuccess
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindError:
		return "error"
	case KindEmptySuccess:
		return "empty"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// State is the outcome of a single submission. Message is set for the
// error and empty success kinds, Columns and Rows for the table kind.
type State struct {
	Kind    Kind
	Message string
	Columns []string
	Rows    [][]any
}

func Loading() State {
	return State{Kind: KindLoading}
}

// Classify selects the state for a response. A failed response is always
// an error, even when it carries data.
func Classify(r *models.QueryResponse) State {
	if r == nil {
		return State{Kind: KindError, Message: DefaultErrorText}
	}

	if !r.Success {
		message := r.Error
		if message == "" {
			message = DefaultErrorText
		}
		return State{Kind: KindError, Message: message}
	}

	if r.Data == nil || len(r.Data.Rows) == 0 {
		message := r.Message
		if message == "" {
			message = DefaultSuccessText
		}
		return State{Kind: KindEmptySuccess, Message: message}
	}

	return State{Kind: KindTable, Columns: r.Data.Columns, Rows: r.Data.Rows}
}
