package bot

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edventure/tutorbot/internal/conversation"
	"github.com/edventure/tutorbot/internal/model/convo"
	"github.com/edventure/tutorbot/pkg/utils"
)

// Handler exposes the conversation engine over HTTP. It is the
// protocol-neutral command surface: commands, free text and selection events
// go in, replies come out.
type Handler struct {
	engine *conversation.Engine
}

// New creates the bot event handler.
func New(engine *conversation.Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the event endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/commands", h.handleCommand)
	r.Post("/messages", h.handleMessage)
	r.Post("/selections", h.handleSelection)
}

type eventPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Command  string `json:"command"`
	Text     string `json:"text"`
	Data     string `json:"data"`
}

type repliesResponse struct {
	Replies []convo.Reply `json:"replies"`
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	cmd, ok := convo.ParseCommand(payload.Command)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unknown command")
		return
	}

	replies := h.engine.HandleCommand(r.Context(), payload.inbound(), cmd)
	utils.RespondJSON(w, http.StatusOK, repliesResponse{Replies: replies})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	ev := payload.inbound()

	// Main-menu button presses arrive as plain text; translate them back
	// into their commands before dispatching.
	if cmd, ok := convo.CommandForLabel(payload.Text); ok {
		replies := h.engine.HandleCommand(r.Context(), ev, cmd)
		utils.RespondJSON(w, http.StatusOK, repliesResponse{Replies: replies})
		return
	}
	if cmd, ok := convo.ParseCommand(payload.Text); ok && len(payload.Text) > 0 && payload.Text[0] == '/' {
		replies := h.engine.HandleCommand(r.Context(), ev, cmd)
		utils.RespondJSON(w, http.StatusOK, repliesResponse{Replies: replies})
		return
	}

	replies := h.engine.HandleText(r.Context(), ev)
	utils.RespondJSON(w, http.StatusOK, repliesResponse{Replies: replies})
}

func (h *Handler) handleSelection(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	sel, err := convo.ParseSelection(payload.Data)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	replies := h.engine.HandleSelection(r.Context(), payload.inbound(), sel)
	utils.RespondJSON(w, http.StatusOK, repliesResponse{Replies: replies})
}

func (p eventPayload) inbound() convo.Inbound {
	return convo.Inbound{UserID: p.UserID, Username: p.Username, Text: p.Text}
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (eventPayload, bool) {
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return eventPayload{}, false
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return eventPayload{}, false
	}
	return payload, true
}
