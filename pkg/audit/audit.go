package audit

type Audit interface {
	Write(*QueryData) error
}

type QueryData struct {
	Query     string
	User      string
	RequestID string
	Timestamp int64
}
