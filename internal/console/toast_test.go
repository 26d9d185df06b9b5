package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToaster(t *testing.T) {
	t.Run("New Toast Replaces Current", func(t *testing.T) {
		toaster := NewToaster(time.Hour)
		toaster.Show(ToastSuccess, "first")
		toaster.Show(ToastError, "second")

		cur := toaster.Current()
		require.NotNil(t, cur)
		assert.Equal(t, "second", cur.Message)
		assert.Equal(t, ToastError, cur.Kind)
	})

	t.Run("Auto Dismisses After Delay", func(t *testing.T) {
		toaster := NewToaster(20 * time.Millisecond)
		dismissed := make(chan struct{})
		toaster.OnChange(func(toast *Toast) {
			if toast == nil {
				close(dismissed)
			}
		})

		toaster.Show(ToastSuccess, "saved")
		select {
		case <-dismissed:
		case <-time.After(time.Second):
			t.Fatal("toast was not dismissed")
		}
		assert.Nil(t, toaster.Current())
	})

	t.Run("Replaced Toast Timer Does Not Dismiss Successor", func(t *testing.T) {
		toaster := NewToaster(30 * time.Millisecond)
		toaster.Show(ToastSuccess, "first")
		time.Sleep(20 * time.Millisecond)
		toaster.Show(ToastSuccess, "second")
		time.Sleep(15 * time.Millisecond)

		cur := toaster.Current()
		require.NotNil(t, cur)
		assert.Equal(t, "second", cur.Message)
	})

	t.Run("Default Delay", func(t *testing.T) {
		assert.Equal(t, DefaultToastDelay, NewToaster(0).delay)
	})
}

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("/admin")
	require.NoError(t, err)
	assert.Equal(t, RouteList, r.Kind)

	r, err = ParseRoute("/admin/login")
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, r.Kind)

	r, err = ParseRoute(NewPath("events"))
	require.NoError(t, err)
	assert.Equal(t, Route{Kind: RouteNew, Collection: "events"}, r)

	r, err = ParseRoute(EditPath("services", "abc-123"))
	require.NoError(t, err)
	assert.Equal(t, Route{Kind: RouteEdit, Collection: "services", ID: "abc-123"}, r)

	_, err = ParseRoute("/admin/bookings/new")
	assert.Error(t, err)
	_, err = ParseRoute("/public")
	assert.Error(t, err)
}
