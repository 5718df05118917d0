package models

// QueryRequest is the body posted to the query endpoint.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the envelope returned by the query endpoint. The outer
// keys are lowercase while the nested result and the message are not; both
// ends of the wire depend on this casing.
type QueryResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Data    *QueryResult `json:"data,omitempty"`
	Message string       `json:"Message,omitempty"`
}

// QueryResult is a tabular result set. Every row holds one value per
// column; a nil value stands for SQL NULL.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}

// Failed builds an unsuccessful response carrying the given error text.
func Failed(message string) *QueryResponse {
	return &QueryResponse{Success: false, Error: message}
}
