package api

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/service"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseHandler holds the case service dependency.
type CaseHandler struct {
	caseService service.CaseService
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(caseService service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// --- Request Structs ---

type CreateCaseRequest struct {
	Title                    string        `json:"title" binding:"required"`
	CaseNo                   string        `json:"caseNo" binding:"required"`
	Type                     string        `json:"type" binding:"required"`
	Status                   domain.Status `json:"status"`
	CourtName                string        `json:"courtName" binding:"required"`
	NextHearing              time.Time     `json:"nextHearing" binding:"required"`
	PartyName                string        `json:"partyName" binding:"required"`
	Respondent               string        `json:"respondent" binding:"required"`
	Lawyer                   string        `json:"lawyer" binding:"required"`
	ContactNumber            string        `json:"contactNumber" binding:"required"`
	AdvocateContactNumber    string        `json:"advocateContactNumber"`
	AdversePartyAdvocateName string        `json:"adversePartyAdvocateName"`
	CaseYear                 int           `json:"caseYear" binding:"required"`
	OnBehalfOf               string        `json:"onBehalfOf" binding:"required"`
	Description              string        `json:"description"`
}

// UpdateCaseRequest is a partial patch; absent fields stay untouched.
type UpdateCaseRequest struct {
	Title                    *string        `json:"title"`
	CaseNo                   *string        `json:"caseNo"`
	Type                     *string        `json:"type"`
	Status                   *domain.Status `json:"status"`
	CourtName                *string        `json:"courtName"`
	NextHearing              *time.Time     `json:"nextHearing"`
	PartyName                *string        `json:"partyName"`
	Respondent               *string        `json:"respondent"`
	Lawyer                   *string        `json:"lawyer"`
	ContactNumber            *string        `json:"contactNumber"`
	AdvocateContactNumber    *string        `json:"advocateContactNumber"`
	AdversePartyAdvocateName *string        `json:"adversePartyAdvocateName"`
	CaseYear                 *int           `json:"caseYear"`
	OnBehalfOf               *string        `json:"onBehalfOf"`
	Description              *string        `json:"description"`
}

type UpdateStatusRequest struct {
	Status domain.Status `json:"status" binding:"required"`
}

type CreateSectionNoteRequest struct {
	SectionType string `json:"sectionType" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
}

// --- Handler Methods ---

// CreateCase handles POST /cases.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	created, err := h.caseService.CreateCase(c.Request.Context(), ownerID, service.CaseInput{
		Title:                    req.Title,
		CaseNo:                   req.CaseNo,
		Type:                     req.Type,
		Status:                   req.Status,
		CourtName:                req.CourtName,
		NextHearing:              req.NextHearing,
		PartyName:                req.PartyName,
		Respondent:               req.Respondent,
		Lawyer:                   req.Lawyer,
		ContactNumber:            req.ContactNumber,
		AdvocateContactNumber:    req.AdvocateContactNumber,
		AdversePartyAdvocateName: req.AdversePartyAdvocateName,
		CaseYear:                 req.CaseYear,
		OnBehalfOf:               req.OnBehalfOf,
		Description:              req.Description,
	})
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Case created successfully", created)
}

// ListCases handles GET /cases with page/limit pagination.
func (h *CaseHandler) ListCases(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	cases, pagination, err := h.caseService.ListCases(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       cases,
		"pagination": pagination,
	})
}

// GetCase handles GET /cases/:id.
func (h *CaseHandler) GetCase(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	found, err := h.caseService.GetCase(c.Request.Context(), ownerID, caseID)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, found)
}

// UpdateCase handles PUT /cases/:id.
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	updated, err := h.caseService.UpdateCase(c.Request.Context(), ownerID, caseID, service.CaseUpdate{
		Title:                    req.Title,
		CaseNo:                   req.CaseNo,
		Type:                     req.Type,
		Status:                   req.Status,
		CourtName:                req.CourtName,
		NextHearing:              req.NextHearing,
		PartyName:                req.PartyName,
		Respondent:               req.Respondent,
		Lawyer:                   req.Lawyer,
		ContactNumber:            req.ContactNumber,
		AdvocateContactNumber:    req.AdvocateContactNumber,
		AdversePartyAdvocateName: req.AdversePartyAdvocateName,
		CaseYear:                 req.CaseYear,
		OnBehalfOf:               req.OnBehalfOf,
		Description:              req.Description,
	})
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Case updated successfully", updated)
}

// UpdateStatus handles PATCH /cases/:id/status.
func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	updated, err := h.caseService.UpdateStatus(c.Request.Context(), ownerID, caseID, req.Status)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Case status updated successfully", updated)
}

// DeleteCase handles DELETE /cases/:id.
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	if err := h.caseService.DeleteCase(c.Request.Context(), ownerID, caseID); err != nil {
		h.handleCaseError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Case deleted successfully", nil)
}

// SearchCases handles GET /cases/search?query=.
func (h *CaseHandler) SearchCases(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	cases, err := h.caseService.SearchCases(c.Request.Context(), ownerID, query)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, cases)
}

// UploadFiles handles POST /cases/:id/upload (multipart, field "files"
// plus "sectionType").
func (h *CaseHandler) UploadFiles(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		abortWithError(c, http.StatusBadRequest, "No files uploaded")
		return
	}
	sectionType := c.PostForm("sectionType")

	uploads := make([]service.FileUpload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		uploads = append(uploads, service.FileUpload{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	updated, err := h.caseService.UploadFiles(c.Request.Context(), ownerID, caseID, domain.Section(sectionType), uploads)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Files uploaded successfully", updated)
}

// CreateSectionNote handles POST /cases/:id/notes.
func (h *CaseHandler) CreateSectionNote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	var req CreateSectionNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	updated, err := h.caseService.CreateSectionNote(c.Request.Context(), ownerID, caseID, domain.Section(req.SectionType), req.Title, req.Content)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Note created successfully", updated)
}

// DeleteAttachment handles DELETE /cases/:id/files/:fileId. The fileId
// parameter may be a file id, a stored filename, or a note id.
func (h *CaseHandler) DeleteAttachment(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	updated, err := h.caseService.DeleteAttachment(c.Request.Context(), ownerID, caseID, c.Param("fileId"))
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "File deleted successfully", updated)
}

// GetSections handles GET /cases/:id/sections?section=. With a section it
// returns that section populated; without, the raw four-section map.
func (h *CaseHandler) GetSections(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	if section := c.Query("section"); section != "" {
		views, err := h.caseService.GetSection(c.Request.Context(), ownerID, caseID, domain.Section(section))
		if err != nil {
			h.handleCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, views)
		return
	}

	sections, err := h.caseService.GetAllSections(c.Request.Context(), ownerID, caseID)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, sections)
}

// --- Helpers ---

// handleCaseError maps service errors to HTTP status codes.
func (h *CaseHandler) handleCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaseNotFound), errors.Is(err, service.ErrAttachmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCaseNumberTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnsupportedFileType):
		abortWithError(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrCaseValidation),
		errors.Is(err, service.ErrInvalidSection),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNoFilesProvided),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrNoteTitleRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func requireOwner(c *gin.Context) (primitive.ObjectID, bool) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return primitive.NilObjectID, false
	}
	return ownerID, true
}

func parseCaseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid case ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
