package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/metrics"
	"github.com/prepdeck/prepdeck-backend/internal/render"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/services"
)

type NoteHandler struct {
	log           *logger.Logger
	noteService   services.NoteService
	ingestService services.IngestService
	noteRenderer  *render.NoteRenderer
}

func NewNoteHandler(log *logger.Logger, nsvc services.NoteService, isvc services.IngestService, renderer *render.NoteRenderer) *NoteHandler {
	return &NoteHandler{
		log:           log.With("handler", "NoteHandler"),
		noteService:   nsvc,
		ingestService: isvc,
		noteRenderer:  renderer,
	}
}

// POST /api/notes
// Multipart: a "data" field carrying the JSON document, plus zero or more
// files whose field names are image placeholder tokens.
func (h *NoteHandler) Create(c *gin.Context) {
	raw, attachments, err := readNoteSubmission(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	note, err := h.ingestService.Ingest(c.Request.Context(), raw, attachments)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	metrics.NotesIngested.Inc()
	RespondCreated(c, gin.H{"note": note})
}

func readNoteSubmission(c *gin.Context) ([]byte, []services.Attachment, error) {
	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/") {
		// A bare JSON body is accepted for attachment-free notes.
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("read request body: %w", err)
		}
		return raw, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}
	data := form.Value["data"]
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("missing \"data\" field")
	}

	var attachments []services.Attachment
	for field, headers := range form.File {
		for _, fh := range headers {
			fh := fh
			attachments = append(attachments, services.Attachment{
				Field:    field,
				Filename: fh.Filename,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}
	return []byte(data[0]), attachments, nil
}

// GET /api/notes
func (h *NoteHandler) List(c *gin.Context) {
	filter := repos.NoteFilter{
		Category:    c.Query("category"),
		SubCategory: c.Query("subCategory"),
		Difficulty:  c.Query("difficulty"),
		Search:      c.Query("search"),
	}
	if tags := c.Query("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	page := repos.NotePage{
		Page:    queryInt(c, "page", 1),
		Limit:   queryInt(c, "limit", 100),
		SortAsc: c.Query("sort") == "asc",
	}

	notes, total, err := h.noteService.List(c.Request.Context(), filter, page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	totalPages := int64(0)
	if page.Limit > 0 {
		totalPages = (total + int64(page.Limit) - 1) / int64(page.Limit)
	}
	RespondOK(c, gin.H{
		"notes": notes,
		"pagination": gin.H{
			"total":      total,
			"page":       page.Page,
			"limit":      page.Limit,
			"totalPages": totalPages,
		},
	})
}

// GET /api/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	note, err := h.noteService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"note": note})
}

// PUT /api/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update services.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	note, err := h.noteService.Update(c.Request.Context(), id, update)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"note": note})
}

// DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.noteService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// GET /api/notes/:id/pdf
func (h *NoteHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	note, err := h.noteService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	doc, err := h.noteRenderer.Render(c.Request.Context(), note)
	if err != nil {
		h.log.Error("Failed to render note PDF", "note_id", id, "error", err)
		metrics.PDFRenders.WithLabelValues("error").Inc()
		RespondServiceError(c, err)
		return
	}
	metrics.PDFRenders.WithLabelValues("ok").Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	v := c.Query(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
