package http

import (
	contentHttp "github.com/doshub/portal-backend/internal/content/http"
	"github.com/doshub/portal-backend/internal/pkg/request"
)

// NewsRequest is the query of the public news listing.
type NewsRequest struct {
	request.ListParams
	Search string `form:"search"`
}

// EventsRequest is the query of the public events listing.
type EventsRequest struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// EventsResponse carries the events of one month and the months that have events.
type EventsResponse struct {
	Items  []contentHttp.ItemResponse `json:"items"`
	Month  int                        `json:"month"`
	Year   int                        `json:"year"`
	Months []int                      `json:"months"`
}

// HighlightsResponse is the home page selection.
type HighlightsResponse struct {
	News     []contentHttp.ItemResponse `json:"news"`
	Events   []contentHttp.ItemResponse `json:"events"`
	Services []contentHttp.ItemResponse `json:"services"`
}
