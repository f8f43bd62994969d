package types

// QueryRequest is the body of POST /ai/ and POST /ask_pdf/.
type QueryRequest struct {
	Query string `json:"query"`
}
