package form

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doshub/portal-backend/internal/content"
)

// spyWriter records the calls that reach the repository.
type spyWriter struct {
	content.Repository
	creates int
	updates int
	err     error
}

func (s *spyWriter) Create(ctx context.Context, c content.Collection, f content.Fields) (string, error) {
	s.creates++
	if s.err != nil {
		return "", s.err
	}
	return s.Repository.Create(ctx, c, f)
}

func (s *spyWriter) Update(ctx context.Context, c content.Collection, id string, p content.Patch) error {
	s.updates++
	if s.err != nil {
		return s.err
	}
	return s.Repository.Update(ctx, c, id, p)
}

// serviceWriter submits through the validating content service.
type serviceWriter struct{ content.Service }

func (w serviceWriter) Create(ctx context.Context, c content.Collection, f content.Fields) (string, error) {
	it, err := w.Service.Create(ctx, c, f)
	if err != nil {
		return "", err
	}
	return it.ID, nil
}

func (w serviceWriter) Update(ctx context.Context, c content.Collection, id string, p content.Patch) error {
	_, err := w.Service.Update(ctx, c, id, p)
	return err
}

func newSpy() *spyWriter {
	return &spyWriter{Repository: content.NewMemoryRepository()}
}

func fiesta() EventForm {
	return EventForm{
		Title:   "Barangay Fiesta",
		Excerpt: "Annual fiesta",
		Content: "Food, music and a parade.",
		Date:    "2025-09-15",
		Time:    "09:00",
		Venue:   "Plaza",
	}
}

func TestControllerSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Title Fails Without Repository Call", func(t *testing.T) {
		spy := newSpy()
		ctrl := NewController[NewsForm](spy, 0)

		var states []State
		ctrl.OnStateChange(func(s State) { states = append(states, s) })

		_, err := ctrl.Submit(ctx, "", NewsForm{Title: "", Excerpt: "e", Content: "c", Author: "a"})
		require.Error(t, err)

		var fieldErrs validation.Errors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, ctrl.FieldErrors(), "title")
		assert.Len(t, ctrl.FieldErrors(), 1)
		assert.Equal(t, Failure, ctrl.State())
		assert.Equal(t, []State{Validating, Failure}, states)
		assert.Zero(t, spy.creates+spy.updates)
	})

	t.Run("Event Date And Time Combine", func(t *testing.T) {
		spy := newSpy()
		ctrl := NewController[EventForm](spy, 0)

		id, err := ctrl.Submit(ctx, "", fiesta())
		require.NoError(t, err)
		assert.Equal(t, Success, ctrl.State())
		assert.Equal(t, id, ctrl.ID())

		it, err := spy.Get(ctx, content.Events, id)
		require.NoError(t, err)
		require.NotNil(t, it.Date)
		assert.Equal(t, "2025-09-15T09:00:00Z", it.Date.Format(time.RFC3339))
		assert.Equal(t, "Plaza", it.Venue)
	})

	t.Run("Services Requirements Blanks Stripped", func(t *testing.T) {
		spy := newSpy()
		ctrl := NewController[ServiceForm](spy, 0)

		id, err := ctrl.Submit(ctx, "", ServiceForm{
			Title:        "Barangay Clearance",
			Excerpt:      "e",
			Content:      "c",
			Requirements: NewRequirements("Valid ID", "", "Proof of residency"),
		})
		require.NoError(t, err)

		it, err := spy.Get(ctx, content.Services, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"Valid ID", "Proof of residency"}, it.Requirements)
	})

	t.Run("Id Present Updates", func(t *testing.T) {
		spy := newSpy()
		ctrl := NewController[NewsForm](spy, 0)

		form := NewsForm{Title: "Advisory", Excerpt: "e", Content: "c", Author: "Kapitan"}
		id, err := ctrl.Submit(ctx, "", form)
		require.NoError(t, err)

		form.Title = "Advisory (updated)"
		got, err := ctrl.Submit(ctx, id, form)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, 1, spy.creates)
		assert.Equal(t, 1, spy.updates)

		it, _ := spy.Get(ctx, content.News, id)
		assert.Equal(t, "Advisory (updated)", it.Title)
	})

	t.Run("Repository Failure Is Generic And Edits Reset", func(t *testing.T) {
		spy := newSpy()
		spy.err = content.ErrBackend
		ctrl := NewController[NewsForm](spy, 0)

		_, err := ctrl.Submit(ctx, "", NewsForm{Title: "t", Excerpt: "e", Content: "c", Author: "a"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSubmission)
		assert.ErrorIs(t, err, content.ErrBackend)
		assert.Equal(t, ErrSubmission.Error(), err.Error())
		assert.Empty(t, ctrl.FieldErrors())
		assert.Equal(t, Failure, ctrl.State())

		ctrl.Edited()
		assert.Equal(t, Idle, ctrl.State())
		assert.NoError(t, ctrl.Err())
	})

	t.Run("Update Of Missing Item Fails", func(t *testing.T) {
		ctrl := NewController[ServiceForm](newSpy(), 0)
		_, err := ctrl.Submit(ctx, "missing", ServiceForm{Title: "t", Excerpt: "e", Content: "c"})
		assert.ErrorIs(t, err, content.ErrNotFound)
		assert.ErrorIs(t, err, ErrSubmission)
	})
}

func TestBlankImageURL(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository(), 0)

	t.Run("News", func(t *testing.T) {
		ctrl := NewController[NewsForm](serviceWriter{svc}, 0)
		f := NewsForm{Title: "Advisory", Excerpt: "e", Content: "c", Author: "a", ImageURL: " "}
		require.Empty(t, ctrl.Validate(f))

		id, err := ctrl.Submit(ctx, "", f)
		require.NoError(t, err)
		assert.Equal(t, Success, ctrl.State())

		it, err := svc.Get(ctx, content.News, id)
		require.NoError(t, err)
		assert.Empty(t, it.ImageURL)
	})

	t.Run("Event", func(t *testing.T) {
		ctrl := NewController[EventForm](serviceWriter{svc}, 0)
		f := fiesta()
		f.ImageURL = "\t"

		_, err := ctrl.Submit(ctx, "", f)
		require.NoError(t, err)
		assert.Empty(t, ctrl.FieldErrors())
	})

	t.Run("Invalid URL Caught Before Submission", func(t *testing.T) {
		spy := newSpy()
		ctrl := NewController[NewsForm](spy, 0)
		_, err := ctrl.Submit(ctx, "", NewsForm{Title: "t", Excerpt: "e", Content: "c", Author: "a", ImageURL: "not a url"})
		require.Error(t, err)
		assert.Contains(t, ctrl.FieldErrors(), "imageUrl")
		assert.Zero(t, spy.creates)
	})
}

func TestEventFormValidate(t *testing.T) {
	ctrl := NewController[EventForm](newSpy(), 0)

	f := fiesta()
	assert.Empty(t, ctrl.Validate(f))

	f.Time = ""
	assert.Contains(t, ctrl.Validate(f), "time")

	f = fiesta()
	f.Date = "2025-02-30"
	assert.Contains(t, ctrl.Validate(f), "date")

	f = fiesta()
	f.Time = "9am"
	assert.Contains(t, ctrl.Validate(f), "time")

	assert.Equal(t, Idle, ctrl.State(), "Validate does not change state")
}

func TestEventFormFromItem(t *testing.T) {
	d := time.Date(2025, 9, 15, 1, 0, 0, 0, time.UTC)
	it := &content.Item{Title: "Fiesta", Date: &d}

	f := EventFormFromItem(it, nil)
	assert.Equal(t, "2025-09-15", f.Date)
	assert.Equal(t, "01:00", f.Time)

	manila := time.FixedZone("PHT", 8*60*60)
	f = EventFormFromItem(it, manila)
	assert.Equal(t, "2025-09-15", f.Date)
	assert.Equal(t, "09:00", f.Time)

	fields := f.Fields()
	require.NotNil(t, fields.Date)
	assert.True(t, d.Equal(*fields.Date), "split and recombine round trips")
}

func TestRequirements(t *testing.T) {
	r := NewRequirements()
	assert.Equal(t, 1, r.Len(), "editor starts with one blank row")

	i := r.Add()
	require.NoError(t, r.Set(0, "Valid ID"))
	require.NoError(t, r.Set(i, "Cedula"))
	r.Add()
	assert.Equal(t, 3, r.Len())

	require.NoError(t, r.Remove(1))
	assert.Equal(t, Requirements{"Valid ID", ""}, r)
	assert.Equal(t, []string{"Valid ID"}, r.Values())

	assert.Error(t, r.Set(5, "x"))
	assert.Error(t, r.Remove(-1))
}
