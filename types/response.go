package types

const (
	STATUS_SUCCESSFULLY_UPLOADED = "Successfully Uploaded"
	STATUS_ERROR                 = "error"
	STATUS_OK                    = "ok"
)

type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type Source struct {
	Source      string `json:"source"`
	PageContent string `json:"page_content"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type IngestResult struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	DocLen   int    `json:"doc_len"`
	Chunks   int    `json:"chunks"`
}

type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
}
