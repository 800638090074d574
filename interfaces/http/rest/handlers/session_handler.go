package handlers

import (
	"bytes"
	"net/http"

	"studio-backend/application/services"
	"studio-backend/domain/core"
	"studio-backend/pkg/common"

	"go.uber.org/zap"
)

// SessionHandler handles edit-session lifecycle requests
type SessionHandler struct {
	dashboard *services.DashboardService
	logger    *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(dashboard *services.DashboardService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// SessionStateResponse is the wire shape of the edit session
type SessionStateResponse struct {
	Creators   map[string]core.Creator  `json:"creators"`
	Categories map[string]core.Category `json:"categories"`
	Posts      map[string]core.Post     `json:"posts"`
	Dirty      bool                     `json:"dirty"`
	Degraded   bool                     `json:"degraded"`
}

func sessionStateResponse(state services.SessionState) SessionStateResponse {
	return SessionStateResponse{
		Creators:   state.Working.Creators,
		Categories: state.Working.Categories,
		Posts:      state.Working.Posts,
		Dirty:      state.Dirty,
		Degraded:   state.Degraded,
	}
}

// Load handles POST /session/load
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	state := h.dashboard.Load(r.Context())
	common.RespondJSON(w, http.StatusOK, sessionStateResponse(state))
}

// State handles GET /session/state
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.dashboard.State(r.Context())
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, sessionStateResponse(state))
}

// Revert handles POST /session/revert
func (h *SessionHandler) Revert(w http.ResponseWriter, r *http.Request) {
	state, err := h.dashboard.Revert(r.Context())
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, sessionStateResponse(state))
}

// Save handles POST /session/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Save(r.Context()); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Export handles GET /session/export. The document is not wrapped in the
// API envelope so the downloaded file is importable as-is.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dashboard.Export(r.Context(), &buf); err != nil {
		requestID, _ := common.GetRequestID(r.Context())
		h.logger.Error("content export failed",
			zap.Error(err),
			zap.String("requestID", requestID),
		)
		common.RespondDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="content-export.json"`)
	w.Write(buf.Bytes())
}

// Import handles POST /session/import
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Import(r.Context(), r.Body); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	state, err := h.dashboard.State(r.Context())
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, sessionStateResponse(state))
}
