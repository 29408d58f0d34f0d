package api

import (
	"advokit/case-app/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteHandler holds the note service dependency.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

type NoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), ownerID, req.Title, req.Content)
	if err != nil {
		h.handleNoteError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "Note created successfully", note)
}

// ListNotes handles GET /notes.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotes(c.Request.Context(), ownerID)
	if err != nil {
		h.handleNoteError(c, err)
		return
	}
	respondData(c, http.StatusOK, notes)
}

// GetNote handles GET /notes/:id.
func (h *NoteHandler) GetNote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), ownerID, noteID)
	if err != nil {
		h.handleNoteError(c, err)
		return
	}
	respondData(c, http.StatusOK, note)
}

// UpdateNote handles PUT /notes/:id.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), ownerID, noteID, req.Title, req.Content)
	if err != nil {
		h.handleNoteError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Note updated successfully", note)
}

// DeleteNote handles DELETE /notes/:id.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), ownerID, noteID); err != nil {
		h.handleNoteError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Note deleted successfully", nil)
}

func (h *NoteHandler) handleNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoteValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parseNoteID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid note ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
