package automation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"dev/bravebird/browser-launcher/pkg/models"
)

// Submitter runs a command against the browser view
type Submitter interface {
	Submit(ctx context.Context, text string) (models.Command, error)
}

// History lists journaled commands
type History interface {
	ListRecentCommands(ctx context.Context, limit int) ([]models.CommandRecord, error)
}

const defaultHistoryLimit = 50

var errSessionReleased = errors.New("session released")

// Handlers contains automation API handlers
type Handlers struct {
	limiter   *Limiter
	submitter Submitter
	history   History
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewHandlers creates new automation handlers. history may be nil.
func NewHandlers(limiter *Limiter, submitter Submitter, history History, logger *slog.Logger) *Handlers {
	return &Handlers{
		limiter:   limiter,
		submitter: submitter,
		history:   history,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info returns the application info and whether a session is attached
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	_, attached := h.limiter.Current()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"application": AppInfo,
		"attached":    attached,
	})
}

// ListCommands returns the most recent journaled commands
func (h *Handlers) ListCommands(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Database not available", http.StatusServiceUnavailable)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.history.ListRecentCommands(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.CommandRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}

// CreateSession attaches a new automation session to the view
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.limiter.Attach()
	if errors.Is(err, ErrViewLimitReached) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.logger.Info("Automation session attached", "sessionID", session.SessionID)
	respondJSON(w, http.StatusCreated, session)
}

// DeleteSession releases an automation session
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !h.limiter.Release(id) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	h.logger.Info("Automation session closed", "sessionID", id)
	w.WriteHeader(http.StatusNoContent)
}

// StreamCommands accepts commands over a websocket for an attached session.
// The session is released when the socket closes, and the socket is closed
// when the session is released.
func (h *Handlers) StreamCommands(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	released, ok := h.limiter.Done(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	defer func() {
		if h.limiter.Release(id) {
			h.logger.Info("Automation session closed", "sessionID", id)
		}
	}()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-released:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session released")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			conn.Close()
		case <-finished:
		}
	}()

	ctx := r.Context()

	for {
		var req models.CommandRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Automation socket read failed", "sessionID", id, "error", err)
			}
			return
		}

		if !h.limiter.IsAttached(id) {
			h.writeError(conn, id, errSessionReleased)
			return
		}

		cmd, err := h.submitter.Submit(ctx, req.Command)
		if err != nil {
			h.writeError(conn, id, err)
			return
		}

		if err := conn.WriteJSON(models.WSMessage{
			Type:    "ack",
			Payload: models.CommandAck{Kind: cmd.Kind, URL: cmd.URL},
		}); err != nil {
			h.logger.Debug("Automation socket write failed", "sessionID", id, "error", err)
			return
		}
	}
}

func (h *Handlers) writeError(conn *websocket.Conn, id string, cause error) {
	if err := conn.WriteJSON(models.WSMessage{
		Type:    "error",
		Payload: map[string]string{"error": cause.Error()},
	}); err != nil {
		h.logger.Debug("Automation socket write failed", "sessionID", id, "error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
