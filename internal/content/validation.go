package content

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// NotBlank rejects strings that contain only whitespace. Combine it with
// validation.Required, which catches the empty string.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool { return strings.TrimSpace(s) != "" },
	validation.ErrRequired,
)

// Validate checks f against the schema of c. The returned error, when not
// nil, is a validation.Errors keyed by field name.
func (f Fields) Validate(c Collection) error {
	if !c.Valid() {
		return ErrUnknownCollection
	}

	errs := validation.Errors{
		"title":   validation.Validate(f.Title, validation.Required, NotBlank),
		"excerpt": validation.Validate(f.Excerpt, validation.Required, NotBlank),
		"content": validation.Validate(f.Content, validation.Required, NotBlank),
	}

	// Stored image URLs are trimmed, so a blank one is simply absent.
	imageURL := strings.TrimSpace(f.ImageURL)
	switch c {
	case News:
		errs["author"] = validation.Validate(f.Author, validation.Required, NotBlank)
		errs["imageUrl"] = validation.Validate(imageURL, is.URL)
	case Events:
		errs["date"] = validation.Validate(f.Date, validation.NotNil)
		errs["imageUrl"] = validation.Validate(imageURL, is.URL)
	}

	return errs.Filter()
}

// FieldMessages flattens field errors into field -> message pairs.
func FieldMessages(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			out[field] = err.Error()
		}
	}
	return out
}
