package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/types"
)

const (
	wsMaxMessageSize = 512 * 1024
	wsReadTimeout    = 60 * time.Second
	wsWriteTimeout   = 10 * time.Second
)

// QuestionStreamer generates questions while streaming the raw completion.
type QuestionStreamer interface {
	GenerateStream(ctx context.Context, query string, handler types.StreamHandler) (*GenerationResult, error)
}

// WebSocketService streams question generation over a websocket: the
// completion is forwarded chunk by chunk, then the parsed questions follow.
type WebSocketService struct {
	generator QuestionStreamer
	upgrader  websocket.Upgrader
	log       *zap.Logger
}

func NewWebSocketService(generator QuestionStreamer, log *zap.Logger) *WebSocketService {
	if log == nil {
		log = zap.L()
	}
	return &WebSocketService{
		generator: generator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (s *WebSocketService) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var req types.WebsocketRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if !s.writeError(conn, "invalid message") {
				return
			}
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if !s.write(conn, types.WebSocketResponse{Type: types.TypeWebsocketPong}) {
				return
			}
		case types.TypeWebsocketGenerate:
			if !s.generate(ctx, conn, req.Payload.Query) {
				return
			}
		default:
			if !s.writeError(conn, "unknown message type: "+req.Type) {
				return
			}
		}
	}
}

// generate returns false once the connection is no longer writable.
func (s *WebSocketService) generate(ctx context.Context, conn *websocket.Conn, query string) bool {
	alive := true
	result, err := s.generator.GenerateStream(ctx, query, func(delta string) {
		if !alive {
			return
		}
		alive = s.write(conn, types.WebSocketResponse{
			Type:    types.TypeWebsocketChunk,
			Payload: types.WebSocketChunkResponse{Content: delta},
		})
	})
	if !alive {
		return false
	}
	if err != nil {
		s.log.Warn("streamed generation failed", zap.Error(err))
		message := err.Error()
		if errors.Is(err, ErrUpstream) {
			message = ErrUpstream.Error()
		}
		return s.writeError(conn, message)
	}
	return s.write(conn, types.WebSocketResponse{
		Type:    types.TypeWebsocketQuestions,
		Payload: result.Questions,
	})
}

func (s *WebSocketService) write(conn *websocket.Conn, resp types.WebSocketResponse) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) bool {
	return s.write(conn, types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	})
}
