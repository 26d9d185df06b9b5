package portal

import (
	"time"

	"github.com/doshub/portal-backend/internal/content"
)

// NewsPageSize is the number of news cards shown per page.
const NewsPageSize = 6

// NewsQuery filters and paginates the public news listing.
type NewsQuery struct {
	Search   string // case-insensitive title match; empty matches everything
	Page     int
	PageSize int
}

// NewsPage is one page of matching news, newest first.
type NewsPage struct {
	Items      []*content.Item
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// EventQuery selects the upcoming events of one calendar month.
// A zero Month or Year selects the month or year of Now.
type EventQuery struct {
	Month    time.Month
	Year     int
	Now      time.Time
	Location *time.Location
}

// EventListing is the result of ListEvents.
type EventListing struct {
	Items  []*content.Item
	Month  time.Month
	Year   int
	Months []time.Month // months that have at least one event, ascending
}

// HighlightsSize is the number of items per collection on the home page.
const HighlightsSize = 3

// Highlights is the home page selection: the latest news, the next
// upcoming events and the first services in their canonical order.
type Highlights struct {
	News     []*content.Item
	Events   []*content.Item
	Services []*content.Item
}
