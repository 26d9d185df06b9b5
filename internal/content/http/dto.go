package http

import (
	"time"

	"github.com/doshub/portal-backend/internal/content"
)

// ItemResponse is the JSON shape of a content item.
type ItemResponse struct {
	ID           string     `json:"id"`
	Collection   string     `json:"collection"`
	Title        string     `json:"title"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url,omitempty"`
	Author       string     `json:"author,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Venue        string     `json:"venue,omitempty"`
	Requirements []string   `json:"requirements,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewItemResponse(it *content.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		Collection:   string(it.Collection),
		Title:        it.Title,
		Excerpt:      it.Excerpt,
		Content:      it.Content,
		ImageURL:     it.ImageURL,
		Author:       it.Author,
		Date:         it.Date,
		Venue:        it.Venue,
		Requirements: it.Requirements,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

// NewItemResponses converts a list, never returning nil.
func NewItemResponses(items []*content.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}

// Item converts the response back into the domain type.
func (r ItemResponse) Item() *content.Item {
	it := &content.Item{
		ID:           r.ID,
		Collection:   content.Collection(r.Collection),
		Title:        r.Title,
		Excerpt:      r.Excerpt,
		Content:      r.Content,
		ImageURL:     r.ImageURL,
		Author:       r.Author,
		Date:         r.Date,
		Venue:        r.Venue,
		Requirements: r.Requirements,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if it.Collection == content.Services && it.Requirements == nil {
		it.Requirements = []string{}
	}
	return it
}

// ListRequest defines the sort query parameters of the admin list endpoint.
type ListRequest struct {
	SortBy string `form:"sort_by" binding:"omitempty,oneof=createdAt updatedAt date title"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// CreateBody is the payload for creating an item. Fields that do not apply
// to the target collection are ignored.
type CreateBody struct {
	Title        string     `json:"title"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url"`
	Author       string     `json:"author"`
	Date         *time.Time `json:"date"`
	Venue        string     `json:"venue"`
	Requirements []string   `json:"requirements"`
}

func NewCreateBody(f content.Fields) CreateBody {
	return CreateBody{
		Title:        f.Title,
		Excerpt:      f.Excerpt,
		Content:      f.Content,
		ImageURL:     f.ImageURL,
		Author:       f.Author,
		Date:         f.Date,
		Venue:        f.Venue,
		Requirements: f.Requirements,
	}
}

func (b CreateBody) Fields() content.Fields {
	return content.Fields{
		Title:        b.Title,
		Excerpt:      b.Excerpt,
		Content:      b.Content,
		ImageURL:     b.ImageURL,
		Author:       b.Author,
		Date:         b.Date,
		Venue:        b.Venue,
		Requirements: b.Requirements,
	}
}

// UpdateBody is the payload for PATCH. Absent fields are left unchanged.
type UpdateBody struct {
	Title        *string    `json:"title"`
	Excerpt      *string    `json:"excerpt"`
	Content      *string    `json:"content"`
	ImageURL     *string    `json:"image_url"`
	Author       *string    `json:"author"`
	Date         *time.Time `json:"date"`
	Venue        *string    `json:"venue"`
	Requirements *[]string  `json:"requirements"`
}

func NewUpdateBody(p content.Patch) UpdateBody {
	return UpdateBody{
		Title:        p.Title,
		Excerpt:      p.Excerpt,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		Author:       p.Author,
		Date:         p.Date,
		Venue:        p.Venue,
		Requirements: p.Requirements,
	}
}

func (b UpdateBody) Patch() content.Patch {
	return content.Patch{
		Title:        b.Title,
		Excerpt:      b.Excerpt,
		Content:      b.Content,
		ImageURL:     b.ImageURL,
		Author:       b.Author,
		Date:         b.Date,
		Venue:        b.Venue,
		Requirements: b.Requirements,
	}
}
