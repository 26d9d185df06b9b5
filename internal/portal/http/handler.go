package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doshub/portal-backend/internal/content"
	contentHttp "github.com/doshub/portal-backend/internal/content/http"
	"github.com/doshub/portal-backend/internal/portal"
	"github.com/doshub/portal-backend/internal/pkg/request"
	"github.com/doshub/portal-backend/internal/pkg/response"
)

type Handler struct {
	service portal.Service
	now     func() time.Time
}

func NewHandler(service portal.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) ListNews(c *gin.Context) {
	var req NewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize(portal.NewsPageSize)

	page, err := h.service.SearchNews(c.Request.Context(), portal.NewsQuery{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		contentHttp.Fail(c, err, "list news")
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(
		contentHttp.NewItemResponses(page.Items), page.Page, page.PageSize, page.Total,
	))
}

func (h *Handler) ListEvents(c *gin.Context) {
	var req EventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	listing, err := h.service.ListEvents(c.Request.Context(), portal.EventQuery{
		Month: time.Month(req.Month),
		Year:  req.Year,
		Now:   h.now(),
	})
	if err != nil {
		contentHttp.Fail(c, err, "list events")
		return
	}

	months := make([]int, len(listing.Months))
	for i, m := range listing.Months {
		months[i] = int(m)
	}

	c.JSON(http.StatusOK, EventsResponse{
		Items:  contentHttp.NewItemResponses(listing.Items),
		Month:  int(listing.Month),
		Year:   listing.Year,
		Months: months,
	})
}

func (h *Handler) ListServices(c *gin.Context) {
	items, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		contentHttp.Fail(c, err, "list services")
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(contentHttp.NewItemResponses(items)))
}

func (h *Handler) Home(c *gin.Context) {
	hl, err := h.service.Highlights(c.Request.Context(), h.now())
	if err != nil {
		contentHttp.Fail(c, err, "load highlights")
		return
	}

	c.JSON(http.StatusOK, HighlightsResponse{
		News:     contentHttp.NewItemResponses(hl.News),
		Events:   contentHttp.NewItemResponses(hl.Events),
		Services: contentHttp.NewItemResponses(hl.Services),
	})
}

// Get serves a single published item of the collection pinned on the route.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	it, err := h.service.Get(c.Request.Context(), contentHttp.CollectionOf(c), req.ID)
	if err != nil {
		contentHttp.Fail(c, err, "get item")
		return
	}

	c.JSON(http.StatusOK, contentHttp.NewItemResponse(it))
}

func pinned(c content.Collection) gin.HandlerFunc {
	return contentHttp.WithCollection(c)
}
