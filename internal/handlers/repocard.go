package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/services"
)

type RepoCardHandler struct {
	log             *logger.Logger
	repoCardService services.RepoCardService
}

func NewRepoCardHandler(log *logger.Logger, rsvc services.RepoCardService) *RepoCardHandler {
	return &RepoCardHandler{
		log:             log.With("handler", "RepoCardHandler"),
		repoCardService: rsvc,
	}
}

type createRepoCardRequest struct {
	URL string `json:"url"`
	Tag string `json:"tag"`
}

// POST /api/repos
func (h *RepoCardHandler) Create(c *gin.Context) {
	var req createRepoCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	card, err := h.repoCardService.CreateFromURL(c.Request.Context(), req.URL, req.Tag)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"repo": card})
}

// GET /api/repos?tag=...
func (h *RepoCardHandler) List(c *gin.Context) {
	if tag := c.Query("tag"); tag != "" {
		cards, err := h.repoCardService.ListByTag(c.Request.Context(), tag)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"repos": cards})
		return
	}
	cards, err := h.repoCardService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"repos": cards})
}

// GET /api/repos/:id
func (h *RepoCardHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.repoCardService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"repo": card})
}

// DELETE /api/repos/:id
func (h *RepoCardHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.repoCardService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
