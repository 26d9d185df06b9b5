package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/pkg/apperror"
	"github.com/doshub/portal-backend/internal/pkg/request"
	"github.com/doshub/portal-backend/internal/pkg/response"
)

const collectionKey = "collection"

type Handler struct {
	service content.Service
}

func NewHandler(service content.Service) *Handler {
	return &Handler{service: service}
}

// WithCollection pins the collection served by a route group.
func WithCollection(c content.Collection) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(collectionKey, c)
		ctx.Next()
	}
}

// CollectionOf returns the collection pinned by WithCollection.
func CollectionOf(c *gin.Context) content.Collection {
	v, _ := c.Get(collectionKey)
	col, _ := v.(content.Collection)
	return col
}

func (h *Handler) List(c *gin.Context) {
	col := CollectionOf(c)

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	order := col.CanonicalOrder()
	if req.SortBy != "" {
		dir := req.Order
		if dir == "" {
			dir = "asc"
		}
		var err error
		if order, err = content.ParseOrder(req.SortBy, dir); err != nil {
			Fail(c, err, "list items")
			return
		}
	}

	items, err := h.service.List(c.Request.Context(), col, order)
	if err != nil {
		Fail(c, err, "list items")
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewItemResponses(items)))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	it, err := h.service.Get(c.Request.Context(), CollectionOf(c), req.ID)
	if err != nil {
		Fail(c, err, "get item")
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	it, err := h.service.Create(c.Request.Context(), CollectionOf(c), body.Fields())
	if err != nil {
		Fail(c, err, "create item")
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	it, err := h.service.Update(c.Request.Context(), CollectionOf(c), uri.ID, body.Patch())
	if err != nil {
		Fail(c, err, "update item")
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), CollectionOf(c), req.ID); err != nil {
		Fail(c, err, "delete item")
		return
	}

	c.Status(http.StatusNoContent)
}

// Fail maps content errors onto HTTP responses. Backend failures are logged
// and rendered as a generic message.
func Fail(c *gin.Context, err error, action string) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		response.Error(c, apperror.Invalid(err, content.FieldMessages(fieldErrs)))
	case errors.Is(err, content.ErrNotFound):
		response.Error(c, apperror.Wrap(err, http.StatusNotFound, "item not found"))
	case errors.Is(err, content.ErrUnknownCollection), errors.Is(err, content.ErrInvalidOrder):
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, err.Error()))
	default:
		response.Error(c, apperror.Wrap(err, http.StatusInternalServerError, "failed to "+action))
	}
}
