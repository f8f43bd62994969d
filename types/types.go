package types

const (
	TypeWebsocketPing      = "ping"
	TypeWebsocketPong      = "pong"
	TypeWebsocketGenerate  = "generate"
	TypeWebsocketChunk     = "chunk"
	TypeWebsocketQuestions = "questions"
	TypeWebsocketError     = "error"
)

type WebsocketRequest struct {
	Type    string       `json:"type"`
	Payload QueryRequest `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChunkResponse struct {
	Content string `json:"content"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}

// StreamHandler receives streamed completion deltas
type StreamHandler func(delta string)
