package supportchat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kargotek/destek/backend/pkg/utils"
)

// TurnProcessor is the orchestrator contract the handler depends on.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, sessionID, message string) string
}

// Synthesizer renders reply text to an audio resource reference.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Handler serves the conversational chat endpoint.
type Handler struct {
	turns TurnProcessor
	synth Synthesizer
}

// New creates the chat handler. synth may be nil; replies are then
// text-only.
func New(turns TurnProcessor, synth Synthesizer) *Handler {
	return &Handler{turns: turns, synth: synth}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string  `json:"sessionId"`
	Response  string  `json:"response"`
	Audio     *string `json:"audio"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := h.turns.ProcessTurn(r.Context(), sessionID, payload.Message)

	// Audio is best effort: a failed synthesis degrades to text only.
	var audio *string
	if h.synth != nil {
		if url, err := h.synth.Synthesize(r.Context(), reply); err != nil {
			log.Printf("[chat] speech synthesis failed session=%s: %v", sessionID, err)
		} else {
			audio = &url
		}
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		SessionID: sessionID,
		Response:  reply,
		Audio:     audio,
	})
}
