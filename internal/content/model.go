package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("item not found")
	ErrBackend           = errors.New("content backend unavailable")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidOrder      = errors.New("invalid order field")
	ErrInvalidFields     = errors.New("invalid item fields")
)

// DefaultVenue is used for events submitted without a venue.
const DefaultVenue = "Barangay Hall"

// Collection names a group of items sharing a schema.
type Collection string

const (
	News     Collection = "news"
	Events   Collection = "events"
	Services Collection = "services"
)

// Collections lists every collection in console tab order.
var Collections = []Collection{News, Events, Services}

// ParseCollection resolves a collection name, case-insensitively.
func ParseCollection(s string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
	return c, nil
}

func (c Collection) Valid() bool {
	switch c {
	case News, Events, Services:
		return true
	}
	return false
}

// Singular returns the label used in operator-facing messages.
func (c Collection) Singular() string {
	switch c {
	case News:
		return "news"
	case Events:
		return "event"
	case Services:
		return "service"
	}
	return string(c)
}

// CanonicalOrder is the ordering the console and the portal use for c.
func (c Collection) CanonicalOrder() Order {
	if c == Events {
		return Order{Field: FieldDate}
	}
	return Order{Field: FieldCreatedAt, Desc: true}
}

// OrderField is a sortable item attribute.
type OrderField string

const (
	FieldCreatedAt OrderField = "createdAt"
	FieldUpdatedAt OrderField = "updatedAt"
	FieldDate      OrderField = "date"
	FieldTitle     OrderField = "title"
)

// Order is a sort key and direction for List.
type Order struct {
	Field OrderField
	Desc  bool
}

func (o Order) String() string {
	if o.Desc {
		return string(o.Field) + " desc"
	}
	return string(o.Field) + " asc"
}

// ParseOrder builds an Order from a field name and a direction ("asc" or "desc").
func ParseOrder(field, direction string) (Order, error) {
	o := Order{Field: OrderField(field)}
	switch o.Field {
	case FieldCreatedAt, FieldUpdatedAt, FieldDate, FieldTitle:
	default:
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidOrder, field)
	}
	switch strings.ToLower(direction) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return Order{}, fmt.Errorf("%w: direction %q", ErrInvalidOrder, direction)
	}
	return o, nil
}

// Supports reports whether items of c can be sorted by o.
func (o Order) Supports(c Collection) bool {
	switch o.Field {
	case FieldCreatedAt, FieldUpdatedAt, FieldTitle:
		return true
	case FieldDate:
		return c == Events
	}
	return false
}

// Item is one piece of published content. Fields that do not apply to the
// item's collection are left zero.
type Item struct {
	ID           string
	Collection   Collection
	Title        string
	Excerpt      string
	Content      string
	ImageURL     string
	Author       string
	Date         *time.Time
	Venue        string
	Requirements []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields returns the caller-editable part of the item.
func (it *Item) Fields() Fields {
	f := Fields{
		Title:    it.Title,
		Excerpt:  it.Excerpt,
		Content:  it.Content,
		ImageURL: it.ImageURL,
		Author:   it.Author,
		Venue:    it.Venue,
	}
	if it.Date != nil {
		d := *it.Date
		f.Date = &d
	}
	if it.Requirements != nil {
		f.Requirements = append([]string{}, it.Requirements...)
	}
	return f
}

// Fields are the values a caller supplies when creating an item.
type Fields struct {
	Title        string
	Excerpt      string
	Content      string
	ImageURL     string
	Author       string
	Date         *time.Time
	Venue        string
	Requirements []string
}

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	Title        *string
	Excerpt      *string
	Content      *string
	ImageURL     *string
	Author       *string
	Date         *time.Time
	Venue        *string
	Requirements *[]string
}

// PatchFrom builds a patch that replaces every field with the values in f.
func PatchFrom(f Fields) Patch {
	p := Patch{
		Title:    &f.Title,
		Excerpt:  &f.Excerpt,
		Content:  &f.Content,
		ImageURL: &f.ImageURL,
		Author:   &f.Author,
		Date:     f.Date,
		Venue:    &f.Venue,
	}
	reqs := f.Requirements
	p.Requirements = &reqs
	return p
}

// Apply returns a copy of f with the non-nil values of p.
func (p Patch) Apply(f Fields) Fields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Excerpt != nil {
		f.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		f.Content = *p.Content
	}
	if p.ImageURL != nil {
		f.ImageURL = *p.ImageURL
	}
	if p.Author != nil {
		f.Author = *p.Author
	}
	if p.Date != nil {
		d := *p.Date
		f.Date = &d
	}
	if p.Venue != nil {
		f.Venue = *p.Venue
	}
	if p.Requirements != nil {
		f.Requirements = append([]string{}, (*p.Requirements)...)
	}
	return f
}

// Normalize drops the fields that do not belong to c and applies the
// collection defaults: events get DefaultVenue, services lose blank requirements.
func (f Fields) Normalize(c Collection) Fields {
	out := Fields{
		Title:   strings.TrimSpace(f.Title),
		Excerpt: strings.TrimSpace(f.Excerpt),
		Content: f.Content,
	}
	switch c {
	case News:
		out.ImageURL = strings.TrimSpace(f.ImageURL)
		out.Author = strings.TrimSpace(f.Author)
	case Events:
		out.ImageURL = strings.TrimSpace(f.ImageURL)
		if f.Date != nil {
			d := f.Date.UTC()
			out.Date = &d
		}
		out.Venue = strings.TrimSpace(f.Venue)
		if out.Venue == "" {
			out.Venue = DefaultVenue
		}
	case Services:
		out.Requirements = CleanRequirements(f.Requirements)
	}
	return out
}

// CleanRequirements trims every entry and discards the blank ones, keeping order.
func CleanRequirements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
