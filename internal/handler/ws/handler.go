package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/edventure/tutorbot/internal/conversation"
	"github.com/edventure/tutorbot/internal/model/convo"
	"github.com/edventure/tutorbot/pkg/utils"
)

// Handler runs the live chat surface: one websocket per user, inbound events
// funneled through the conversation engine, replies written back as frames.
type Handler struct {
	engine   *conversation.Engine
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(engine *conversation.Engine) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Command  string `json:"command,omitempty"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
}

type outgoingMessage struct {
	Type      string        `json:"type"`
	Replies   []convo.Reply `json:"replies,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user=%s: %v", userID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for user=%s", userID)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for user=%s: %v", userID, err)
			}
			return
		}

		ev := convo.Inbound{UserID: userID, Username: msg.Username, Text: msg.Text}

		var replies []convo.Reply
		var dispatchErr string
		switch msg.Type {
		case "command":
			cmd, ok := convo.ParseCommand(msg.Command)
			if !ok {
				dispatchErr = "unknown command"
				break
			}
			replies = h.engine.HandleCommand(r.Context(), ev, cmd)
		case "text":
			if cmd, ok := convo.CommandForLabel(msg.Text); ok {
				replies = h.engine.HandleCommand(r.Context(), ev, cmd)
				break
			}
			if cmd, ok := convo.ParseCommand(msg.Text); ok && len(msg.Text) > 0 && msg.Text[0] == '/' {
				replies = h.engine.HandleCommand(r.Context(), ev, cmd)
				break
			}
			replies = h.engine.HandleText(r.Context(), ev)
		case "selection":
			sel, err := convo.ParseSelection(msg.Data)
			if err != nil {
				dispatchErr = err.Error()
				break
			}
			replies = h.engine.HandleSelection(r.Context(), ev, sel)
		default:
			dispatchErr = "unknown event type"
		}

		out := outgoingMessage{
			Type:      "replies",
			Replies:   replies,
			Error:     dispatchErr,
			Timestamp: time.Now().UnixMilli(),
		}
		if dispatchErr != "" {
			out.Type = "error"
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[ws] write error for user=%s: %v", userID, err)
			return
		}
	}
}
