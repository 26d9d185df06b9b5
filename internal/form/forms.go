package form

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/doshub/portal-backend/internal/content"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Entity is an edit form for one collection.
type Entity interface {
	Collection() content.Collection
	// Validate returns validation.Errors keyed by form field, or nil.
	Validate() error
	// Fields converts a valid form into repository fields.
	Fields() content.Fields
}

var required = []validation.Rule{validation.Required, content.NotBlank}

// NewsForm edits a news article.
type NewsForm struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	Author   string `json:"author"`
}

func (f NewsForm) Collection() content.Collection { return content.News }

func (f NewsForm) Validate() error {
	return validation.Errors{
		"title":    validation.Validate(f.Title, required...),
		"excerpt":  validation.Validate(f.Excerpt, required...),
		"content":  validation.Validate(f.Content, required...),
		"author":   validation.Validate(f.Author, required...),
		"imageUrl": validation.Validate(strings.TrimSpace(f.ImageURL), is.URL),
	}.Filter()
}

func (f NewsForm) Fields() content.Fields {
	return content.Fields{
		Title:    f.Title,
		Excerpt:  f.Excerpt,
		Content:  f.Content,
		ImageURL: strings.TrimSpace(f.ImageURL),
		Author:   f.Author,
	}
}

// NewsFormFromItem pre-populates a news form.
func NewsFormFromItem(it *content.Item) NewsForm {
	return NewsForm{
		Title:    it.Title,
		Excerpt:  it.Excerpt,
		Content:  it.Content,
		ImageURL: it.ImageURL,
		Author:   it.Author,
	}
}

// EventForm edits an event. Date and Time are entered separately and
// combined in Location, UTC when nil.
type EventForm struct {
	Title    string         `json:"title"`
	Excerpt  string         `json:"excerpt"`
	Content  string         `json:"content"`
	ImageURL string         `json:"imageUrl"`
	Date     string         `json:"date"`
	Time     string         `json:"time"`
	Venue    string         `json:"venue"`
	Location *time.Location `json:"-"`
}

func (f EventForm) Collection() content.Collection { return content.Events }

func (f EventForm) Validate() error {
	errs := validation.Errors{
		"title":    validation.Validate(f.Title, required...),
		"excerpt":  validation.Validate(f.Excerpt, required...),
		"content":  validation.Validate(f.Content, required...),
		"imageUrl": validation.Validate(strings.TrimSpace(f.ImageURL), is.URL),
		"date": validation.Validate(strings.TrimSpace(f.Date),
			validation.Required, validation.Date(DateLayout).Error("must be a valid date (YYYY-MM-DD)")),
		"time": validation.Validate(strings.TrimSpace(f.Time),
			validation.Required, validation.Date(TimeLayout).Error("must be a valid time (HH:MM)")),
	}
	if errs["date"] == nil && errs["time"] == nil {
		if _, err := f.timestamp(); err != nil {
			errs["date"] = validation.NewError("validation_event_timestamp", "date and time do not form a valid timestamp")
		}
	}
	return errs.Filter()
}

func (f EventForm) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f EventForm) timestamp() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout,
		strings.TrimSpace(f.Date)+" "+strings.TrimSpace(f.Time), f.location())
}

func (f EventForm) Fields() content.Fields {
	out := content.Fields{
		Title:    f.Title,
		Excerpt:  f.Excerpt,
		Content:  f.Content,
		ImageURL: strings.TrimSpace(f.ImageURL),
		Venue:    f.Venue,
	}
	if ts, err := f.timestamp(); err == nil {
		ts = ts.UTC()
		out.Date = &ts
	}
	return out
}

// EventFormFromItem pre-populates an event form, splitting the stored
// timestamp into date and time in loc (UTC when nil).
func EventFormFromItem(it *content.Item, loc *time.Location) EventForm {
	f := EventForm{
		Title:    it.Title,
		Excerpt:  it.Excerpt,
		Content:  it.Content,
		ImageURL: it.ImageURL,
		Venue:    it.Venue,
		Location: loc,
	}
	if it.Date != nil {
		d := it.Date.In(f.location())
		f.Date = d.Format(DateLayout)
		f.Time = d.Format(TimeLayout)
	}
	return f
}

// ServiceForm edits a service and its requirements.
type ServiceForm struct {
	Title        string       `json:"title"`
	Excerpt      string       `json:"excerpt"`
	Content      string       `json:"content"`
	Requirements Requirements `json:"requirements"`
}

func (f ServiceForm) Collection() content.Collection { return content.Services }

func (f ServiceForm) Validate() error {
	return validation.Errors{
		"title":   validation.Validate(f.Title, required...),
		"excerpt": validation.Validate(f.Excerpt, required...),
		"content": validation.Validate(f.Content, required...),
	}.Filter()
}

func (f ServiceForm) Fields() content.Fields {
	return content.Fields{
		Title:        f.Title,
		Excerpt:      f.Excerpt,
		Content:      f.Content,
		Requirements: f.Requirements.Values(),
	}
}

// ServiceFormFromItem pre-populates a service form.
func ServiceFormFromItem(it *content.Item) ServiceForm {
	return ServiceForm{
		Title:        it.Title,
		Excerpt:      it.Excerpt,
		Content:      it.Content,
		Requirements: NewRequirements(it.Requirements...),
	}
}
