package types

const (
	HISTORY_KIND_QUESTIONS = "questions"
	HISTORY_KIND_ASK       = "ask"
	HISTORY_KIND_INGEST    = "ingest"
)

// HistoryRecord is an audit entry for one generation, question or upload.
type HistoryRecord struct {
	ID        string          `json:"id" bson:"_id"`
	Kind      string          `json:"kind" bson:"kind"`
	Query     string          `json:"query,omitempty" bson:"query,omitempty"`
	Questions []QuestionEntry `json:"questions,omitempty" bson:"questions,omitempty"`
	Answer    string          `json:"answer,omitempty" bson:"answer,omitempty"`
	Filename  string          `json:"filename,omitempty" bson:"filename,omitempty"`
	Chunks    int             `json:"chunks,omitempty" bson:"chunks,omitempty"`
	CreatedAt int64           `json:"created_at" bson:"created_at"`
}
