package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/services"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

type EmployeeHandler struct {
	log             *logger.Logger
	employeeService services.EmployeeService
}

func NewEmployeeHandler(log *logger.Logger, esvc services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		log:             log.With("handler", "EmployeeHandler"),
		employeeService: esvc,
	}
}

// POST /api/employees
// Either a JSON body, or multipart with a "data" JSON field plus an optional
// "avatar" image file.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var employee types.Employee
	var avatar []byte

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		data := c.PostForm("data")
		if data == "" {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errMissingData)
			return
		}
		if err := json.Unmarshal([]byte(data), &employee); err != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
			return
		}
		if fh, err := c.FormFile("avatar"); err == nil {
			f, err := fh.Open()
			if err != nil {
				RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
				return
			}
			avatar, err = io.ReadAll(f)
			f.Close()
			if err != nil {
				RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
				return
			}
		}
	} else {
		if err := c.ShouldBindJSON(&employee); err != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
			return
		}
	}

	created, err := h.employeeService.Create(c.Request.Context(), &employee, avatar)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"employee": created})
}

// GET /api/employees?company_id=...
func (h *EmployeeHandler) List(c *gin.Context) {
	if companyParam := c.Query("company_id"); companyParam != "" {
		companyID, err := uuid.Parse(companyParam)
		if err != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
			return
		}
		employees, err := h.employeeService.ListByCompany(c.Request.Context(), companyID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"employees": employees})
		return
	}
	employees, err := h.employeeService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"employees": employees})
}

// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	employee, err := h.employeeService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"employee": employee})
}

// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update services.EmployeeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), id, update)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"employee": employee})
}

// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

type missingDataError struct{}

func (missingDataError) Error() string { return `missing "data" field` }

var errMissingData = missingDataError{}
