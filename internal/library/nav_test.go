package library

import (
	"testing"

	"lms-resource-center/internal/models"
)

func TestNavigator_StartsAtRoot(t *testing.T) {
	n := NewNavigator("Library")

	if !n.AtRoot() {
		t.Error("new navigator should be at root")
	}
	if n.CurrentID() != nil {
		t.Error("root id should be nil")
	}
	crumbs := n.Breadcrumbs()
	if len(crumbs) != 1 || crumbs[0].Title != "Library" {
		t.Errorf("unexpected initial breadcrumbs: %+v", crumbs)
	}
}

func TestNavigator_DescendAndJump(t *testing.T) {
	n := NewNavigator("Library")

	if err := n.Descend(res("f1", "Term 1", models.TypeFolder)); err != nil {
		t.Fatalf("Descend folder: %v", err)
	}
	if err := n.Descend(res("f2", "Week 3", models.TypeVideoPlaylist)); err != nil {
		t.Fatalf("Descend playlist: %v", err)
	}

	if id := n.CurrentID(); id == nil || *id != "f2" {
		t.Errorf("current id = %v, want f2", id)
	}
	if len(n.Breadcrumbs()) != 3 {
		t.Fatalf("breadcrumb depth = %d, want 3", len(n.Breadcrumbs()))
	}

	if err := n.JumpTo(1); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if id := n.CurrentID(); id == nil || *id != "f1" {
		t.Errorf("after jump, current id = %v, want f1", id)
	}
	if len(n.Breadcrumbs()) != 2 {
		t.Errorf("after jump, depth = %d, want 2", len(n.Breadcrumbs()))
	}

	if err := n.JumpTo(0); err != nil {
		t.Fatalf("JumpTo root: %v", err)
	}
	if !n.AtRoot() {
		t.Error("expected root after JumpTo(0)")
	}
}

func TestNavigator_DescendRejectsLeaf(t *testing.T) {
	n := NewNavigator("Library")
	if err := n.Descend(res("file", "Notes.pdf", models.TypeFile)); err != ErrNotContainer {
		t.Errorf("expected ErrNotContainer, got %v", err)
	}
	if !n.AtRoot() {
		t.Error("failed descend must not move the navigator")
	}
}

func TestNavigator_JumpToOutOfRange(t *testing.T) {
	n := NewNavigator("Library")
	if err := n.JumpTo(3); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := n.JumpTo(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestNavigator_Up(t *testing.T) {
	n := NewNavigator("Library")
	n.Up() // no-op at root
	if !n.AtRoot() {
		t.Error("Up at root should stay at root")
	}

	n.Descend(res("f1", "Folder", models.TypeFolder))
	n.Up()
	if !n.AtRoot() {
		t.Error("Up should return to root")
	}
}

func TestNavigator_BreadcrumbsAreCopies(t *testing.T) {
	n := NewNavigator("Library")
	n.Descend(res("f1", "Folder", models.TypeFolder))

	crumbs := n.Breadcrumbs()
	crumbs[0].Title = "mutated"

	if n.Breadcrumbs()[0].Title != "Library" {
		t.Error("Breadcrumbs must return a copy")
	}
}
