package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/services"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

type CompanyHandler struct {
	log            *logger.Logger
	companyService services.CompanyService
}

func NewCompanyHandler(log *logger.Logger, csvc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		log:            log.With("handler", "CompanyHandler"),
		companyService: csvc,
	}
}

// POST /api/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var company types.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	created, err := h.companyService.Create(c.Request.Context(), &company)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"company": created})
}

// GET /api/companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"companies": companies})
}

// GET /api/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	company, err := h.companyService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"company": company})
}

// PUT /api/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update services.CompanyUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	company, err := h.companyService.Update(c.Request.Context(), id, update)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"company": company})
}

// DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companyService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
