package form

import (
	"fmt"

	"github.com/doshub/portal-backend/internal/content"
)

// Requirements is the ordered, index-addressed list edited on a service
// form. Blank rows may exist while editing; Values drops them.
type Requirements []string

// NewRequirements starts an editor with the given rows, or a single blank
// row when none are given.
func NewRequirements(rows ...string) Requirements {
	if len(rows) == 0 {
		return Requirements{""}
	}
	return append(Requirements{}, rows...)
}

// Add appends a blank row and returns its index.
func (r *Requirements) Add() int {
	*r = append(*r, "")
	return len(*r) - 1
}

// Set replaces the row at i.
func (r *Requirements) Set(i int, value string) error {
	if i < 0 || i >= len(*r) {
		return fmt.Errorf("requirement row %d out of range [0,%d)", i, len(*r))
	}
	(*r)[i] = value
	return nil
}

// Remove deletes the row at i, shifting later rows up.
func (r *Requirements) Remove(i int) error {
	if i < 0 || i >= len(*r) {
		return fmt.Errorf("requirement row %d out of range [0,%d)", i, len(*r))
	}
	*r = append((*r)[:i], (*r)[i+1:]...)
	return nil
}

func (r Requirements) Len() int { return len(r) }

// Values returns the trimmed, non-blank rows in order.
func (r Requirements) Values() []string {
	return content.CleanRequirements(r)
}
