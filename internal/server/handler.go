package server

import (
	"context"
	defError "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"draftsync/domain"
	"draftsync/internal/errors"
)

// DocumentStore is the user-scoped persistence the handlers sit on.
// gateway.PostgresStore satisfies it.
type DocumentStore interface {
	CreateDocument(ctx context.Context, userID uint64, content string) (*domain.Document, error)
	GetDocument(ctx context.Context, userID, docID uint64) (*domain.Document, error)
	UpdateDocument(ctx context.Context, userID, docID uint64, patch domain.DocumentPatch) (*domain.Document, error)
	DeleteDocument(ctx context.Context, userID, docID uint64) error
	ListDocuments(ctx context.Context, userID uint64) ([]domain.Document, error)
}

type Handler struct {
	store DocumentStore
}

func NewHandler(store DocumentStore) *Handler {
	return &Handler{store: store}
}

type CreateRequest struct {
	Content string `json:"content"`
}

type UpdateRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Content *string `json:"content"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.store.CreateDocument(c.Request.Context(), userID.(uint64), form.Content)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) Show(c *gin.Context) {
	docID, err := docParam(c)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.store.GetDocument(c.Request.Context(), userID.(uint64), docID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Document not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Update overwrites the patched fields of a document. The autosave engine
// always sends title and content together, but partial patches are legal.
func (h *Handler) Update(c *gin.Context) {
	docID, err := docParam(c)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	var form UpdateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	if form.Title == nil && form.Content == nil {
		c.Error(errors.UnprocessableEntity("Nothing to update", nil))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.store.UpdateDocument(c.Request.Context(), userID.(uint64), docID, domain.DocumentPatch{
		Title:   form.Title,
		Content: form.Content,
	})
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Document not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	docID, err := docParam(c)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.store.DeleteDocument(c.Request.Context(), userID.(uint64), docID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Document not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	docs, err := h.store.ListDocuments(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func docParam(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
