package models

// Read modes accepted by the proxy.
const (
	ModeGetDocument = "getDocument"
	ModeQuery       = "query"
)

// Filter is a single field filter applied to a query.
type Filter struct {
	Field string      `json:"field"`
	Op    string      `json:"op"`
	Value interface{} `json:"value"`
}

// Sort is a single ordering directive. Direction defaults to ascending.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// ReadRequest is the request body shared by both transports.
type ReadRequest struct {
	Mode       string   `json:"mode"`
	Collection string   `json:"collection"`
	DocID      string   `json:"docId"`
	Where      []Filter `json:"where"`
	OrderBy    []Sort   `json:"orderBy"`
	Limit      int      `json:"limit"`
}
