package library

import (
	"errors"

	"lms-resource-center/internal/models"
)

// ErrNotContainer is returned when descending into a non-container
// resource.
var ErrNotContainer = errors.New("resource is not a folder or playlist")

// Crumb is one entry of the breadcrumb stack. A nil ID denotes the root.
type Crumb struct {
	ID    *string
	Title string
}

// Navigator tracks the current folder and the breadcrumb path to it. The
// bottom of the stack is always the library root.
type Navigator struct {
	crumbs []Crumb
}

// NewNavigator creates a navigator positioned at the root.
func NewNavigator(rootLabel string) *Navigator {
	return &Navigator{crumbs: []Crumb{{ID: nil, Title: rootLabel}}}
}

// CurrentID returns the current folder id, nil at root.
func (n *Navigator) CurrentID() *string {
	return n.crumbs[len(n.crumbs)-1].ID
}

// AtRoot reports whether the navigator is at the library root.
func (n *Navigator) AtRoot() bool {
	return len(n.crumbs) == 1
}

// Breadcrumbs returns a copy of the path from root to the current folder.
func (n *Navigator) Breadcrumbs() []Crumb {
	out := make([]Crumb, len(n.crumbs))
	copy(out, n.crumbs)
	return out
}

// Descend enters a container resource, pushing it onto the breadcrumb
// stack.
func (n *Navigator) Descend(r models.Resource) error {
	if !r.IsContainer() {
		return ErrNotContainer
	}
	id := r.ID
	n.crumbs = append(n.crumbs, Crumb{ID: &id, Title: r.Title})
	return nil
}

// JumpTo truncates the breadcrumb stack to the given index (0 is root).
func (n *Navigator) JumpTo(index int) error {
	if index < 0 || index >= len(n.crumbs) {
		return errors.New("breadcrumb index out of range")
	}
	n.crumbs = n.crumbs[:index+1]
	return nil
}

// Up moves one level toward the root; it is a no-op at the root.
func (n *Navigator) Up() {
	if len(n.crumbs) > 1 {
		n.crumbs = n.crumbs[:len(n.crumbs)-1]
	}
}
