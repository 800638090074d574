package handlers

import (
	"net/http"

	"studio-backend/application/services"
	"studio-backend/domain/core"
	"studio-backend/pkg/common"
	"studio-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// EntityHandler handles working-copy mutations for creators, categories
// and posts
type EntityHandler struct {
	dashboard *services.DashboardService
	logger    *zap.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(dashboard *services.DashboardService, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreatorRequest is the request body for creating or updating a creator
type CreatorRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	AvatarURL string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// CategoryRequest is the request body for creating or updating a category
type CategoryRequest struct {
	ID             string `json:"id,omitempty"`
	Label          string `json:"categoryLabel" validate:"required,min=1,max=200"`
	Order          int64  `json:"order" validate:"gte=0"`
	NFTRequirement int64  `json:"nftRequirement" validate:"gte=0"`
}

// PostRequest is the request body for creating or updating a post
type PostRequest struct {
	ID             string `json:"id,omitempty"`
	Label          string `json:"postLabel" validate:"required,min=1,max=200"`
	Content        string `json:"content" validate:"required"`
	CreatorID      string `json:"creatorId" validate:"required"`
	CategoryID     string `json:"categoryId,omitempty"`
	NFTRequirement int64  `json:"nftRequirement" validate:"gte=0"`
	Timestamp      int64  `json:"timestamp,omitempty"`
}

// RelocateRequest is the request body for moving a post between categories.
// An empty categoryId leaves the post uncategorized.
type RelocateRequest struct {
	CategoryID string `json:"categoryId"`
}

// ReorderRequest is the request body for applying a category ordering
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" validate:"required,min=1,dive,required"`
}

func (h *EntityHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(r, v, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// CreateCreator handles POST /creators
func (h *EntityHandler) CreateCreator(w http.ResponseWriter, r *http.Request) {
	var req CreatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = core.NewID()
	}
	creator := core.Creator{ID: req.ID, Name: req.Name, AvatarURL: req.AvatarURL}
	if err := h.dashboard.CreateCreator(r.Context(), creator); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": creator.ID})
}

// UpdateCreator handles PUT /creators/{creatorID}
func (h *EntityHandler) UpdateCreator(w http.ResponseWriter, r *http.Request) {
	var req CreatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	creator := core.Creator{ID: chi.URLParam(r, "creatorID"), Name: req.Name, AvatarURL: req.AvatarURL}
	if err := h.dashboard.UpdateCreator(r.Context(), creator); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": creator.ID})
}

// DeleteCreator handles DELETE /creators/{creatorID}
func (h *EntityHandler) DeleteCreator(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.DeleteCreator(r.Context(), chi.URLParam(r, "creatorID")); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreateCategory handles POST /categories
func (h *EntityHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = core.NewID()
	}
	category := core.Category{
		ID:             req.ID,
		Label:          req.Label,
		Order:          req.Order,
		NFTRequirement: req.NFTRequirement,
	}
	if err := h.dashboard.CreateCategory(r.Context(), category); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": category.ID})
}

// UpdateCategory handles PUT /categories/{categoryID}
func (h *EntityHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category := core.Category{
		ID:             chi.URLParam(r, "categoryID"),
		Label:          req.Label,
		Order:          req.Order,
		NFTRequirement: req.NFTRequirement,
	}
	if err := h.dashboard.UpdateCategory(r.Context(), category); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": category.ID})
}

// DeleteCategory handles DELETE /categories/{categoryID}
func (h *EntityHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ReorderCategories handles POST /categories/reorder
func (h *EntityHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.dashboard.ReorderCategories(r.Context(), req.OrderedIDs); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

// CreatePost handles POST /posts
func (h *EntityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = core.NewID()
	}
	if req.Timestamp == 0 {
		req.Timestamp = utils.NowMillis()
	}
	post := core.Post{
		ID:             req.ID,
		Label:          req.Label,
		Content:        req.Content,
		CreatorID:      req.CreatorID,
		NFTRequirement: req.NFTRequirement,
		Timestamp:      req.Timestamp,
	}
	if err := h.dashboard.CreatePost(r.Context(), post, req.CategoryID); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": post.ID})
}

// UpdatePost handles PUT /posts/{postID}
func (h *EntityHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Timestamp == 0 {
		req.Timestamp = utils.NowMillis()
	}
	post := core.Post{
		ID:             chi.URLParam(r, "postID"),
		Label:          req.Label,
		Content:        req.Content,
		CreatorID:      req.CreatorID,
		NFTRequirement: req.NFTRequirement,
		Timestamp:      req.Timestamp,
	}
	if err := h.dashboard.UpdatePost(r.Context(), post); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": post.ID})
}

// DeletePost handles DELETE /posts/{postID}
func (h *EntityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.DeletePost(r.Context(), chi.URLParam(r, "postID")); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RelocatePost handles POST /posts/{postID}/relocate
func (h *EntityHandler) RelocatePost(w http.ResponseWriter, r *http.Request) {
	var req RelocateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if err := h.dashboard.RelocatePost(r.Context(), chi.URLParam(r, "postID"), req.CategoryID); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "relocated"})
}
