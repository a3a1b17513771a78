package library

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"lms-resource-center/internal/models"
)

// Move guard errors. Both are rejected before any request is sent.
var (
	ErrSelfMove   = errors.New("cannot move a resource into itself")
	ErrSameParent = errors.New("resource is already in that folder")
)

// Session owns one user's view of the library: the current scope, the last
// fetched list, the selection set, and the recents feed. All mutations go
// through the session and end in a re-fetch of the current scope; the
// displayed list always reflects the last successful fetch.
type Session struct {
	client  *Client
	nav     *Navigator
	recents RecentsProvider

	// token orders overlapping fetches: only the latest dispatched
	// request may apply its result.
	token atomic.Uint64

	mu        sync.Mutex
	resources []models.Resource
	loading   bool
	errMsg    string
	selection map[string]struct{}
	view      ViewOptions
	current   models.ResourceType // container kind of the current scope
}

// NewSession creates a session rooted at the library top level.
func NewSession(client *Client, recents RecentsProvider, rootLabel string) *Session {
	if recents == nil {
		recents = NewMemoryRecents(20)
	}
	return &Session{
		client:    client,
		nav:       NewNavigator(rootLabel),
		recents:   recents,
		selection: make(map[string]struct{}),
		view:      ViewOptions{Mode: ViewAll, SortBy: SortByDate, SortOrder: OrderDesc},
		current:   models.TypeFolder,
	}
}

func (s *Session) scopeLocked() Scope {
	return Scope{
		ParentID: s.nav.CurrentID(),
		Search:   s.view.Search,
		Filters: Filters{
			FileType:  s.view.FileType,
			HasPin:    s.view.HasPin,
			HasExpiry: s.view.HasExpiry,
			Tags:      s.view.Tags,
			StartDate: s.view.StartDate,
			EndDate:   s.view.EndDate,
			SortBy:    s.view.SortBy,
			SortOrder: s.view.SortOrder,
		},
	}
}

// Refresh re-fetches the current scope. A result is applied only when no
// newer fetch has been dispatched since; stale responses are discarded
// silently.
func (s *Session) Refresh(ctx context.Context) error {
	token := s.token.Add(1)

	s.mu.Lock()
	s.loading = true
	scope := s.scopeLocked()
	s.mu.Unlock()

	list, err := s.client.List(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token.Load() {
		return nil
	}
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		s.resources = nil
		return err
	}
	s.errMsg = ""
	s.resources = list
	return nil
}

// Resources returns a snapshot of the last successful fetch.
func (s *Session) Resources() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error message, empty when healthy.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Visible applies the view engine to the fetched list.
func (s *Session) Visible() []models.Resource {
	s.mu.Lock()
	opts := s.view
	opts.Recent = s.recents.Recent()
	list := make([]models.Resource, len(s.resources))
	copy(list, s.resources)
	s.mu.Unlock()

	return ApplyView(list, opts)
}

// Groups returns the visible list partitioned into display categories.
func (s *Session) Groups() []Group {
	return GroupResources(s.Visible())
}

// Breadcrumbs returns the current navigation path.
func (s *Session) Breadcrumbs() []Crumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Breadcrumbs()
}

// CurrentContainerType reports the kind of the current scope, so a caller
// can switch to playlist rendering inside VIDEO_PLAYLIST containers.
func (s *Session) CurrentContainerType() models.ResourceType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// clearTransientLocked resets selection and search; ids and terms from a
// previous scope are meaningless in the new one.
func (s *Session) clearTransientLocked() {
	s.selection = make(map[string]struct{})
	s.view.Search = ""
}

// Descend enters a container and re-fetches its contents.
func (s *Session) Descend(ctx context.Context, r models.Resource) error {
	s.mu.Lock()
	if err := s.nav.Descend(r); err != nil {
		s.mu.Unlock()
		return err
	}
	s.clearTransientLocked()
	s.current = r.Type
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// JumpTo truncates the breadcrumb stack and re-fetches that scope. For a
// non-root target a secondary fetch re-reads the container's metadata to
// recover its kind.
func (s *Session) JumpTo(ctx context.Context, index int) error {
	s.mu.Lock()
	if err := s.nav.JumpTo(index); err != nil {
		s.mu.Unlock()
		return err
	}
	s.clearTransientLocked()
	id := s.nav.CurrentID()
	s.current = models.TypeFolder
	s.mu.Unlock()

	if id != nil {
		if r, err := s.client.Get(ctx, *id); err == nil {
			s.mu.Lock()
			s.current = r.Type
			s.mu.Unlock()
		}
	}

	return s.Refresh(ctx)
}

// Up moves one level toward the root.
func (s *Session) Up(ctx context.Context) error {
	s.mu.Lock()
	atRoot := s.nav.AtRoot()
	s.mu.Unlock()
	if atRoot {
		return nil
	}
	crumbs := s.Breadcrumbs()
	return s.JumpTo(ctx, len(crumbs)-2)
}

// SetSearch updates the search term and re-fetches. Changing the term
// invalidates the selection.
func (s *Session) SetSearch(ctx context.Context, term string) error {
	s.mu.Lock()
	if s.view.Search == term {
		s.mu.Unlock()
		return nil
	}
	s.view.Search = term
	s.selection = make(map[string]struct{})
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SetViewMode switches between all/favorites/recent/unread.
func (s *Session) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Mode = mode
}

// ViewMode returns the active view mode.
func (s *Session) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Mode
}

// SetFilters replaces the structured filters and re-fetches.
func (s *Session) SetFilters(ctx context.Context, f Filters) error {
	s.mu.Lock()
	s.view.FileType = f.FileType
	s.view.HasPin = f.HasPin
	s.view.HasExpiry = f.HasExpiry
	s.view.Tags = f.Tags
	s.view.StartDate = f.StartDate
	s.view.EndDate = f.EndDate
	if f.SortBy != "" {
		s.view.SortBy = f.SortBy
	}
	if f.SortOrder != "" {
		s.view.SortOrder = f.SortOrder
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SortBy returns the active sort field.
func (s *Session) SortBy() SortField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.SortBy
}

// SortOrder returns the active sort direction.
func (s *Session) SortOrder() SortOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.SortOrder
}

// SetSort changes the ordering criteria and re-fetches.
func (s *Session) SetSort(ctx context.Context, by SortField, order SortOrder) error {
	s.mu.Lock()
	s.view.SortBy = by
	s.view.SortOrder = order
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// ---- selection set ----

// ToggleSelect flips one id's membership in the selection set.
func (s *Session) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
	} else {
		s.selection[id] = struct{}{}
	}
}

// SelectAllVisible adds every currently visible (post-filter) resource.
func (s *Session) SelectAllVisible() {
	visible := s.Visible()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range visible {
		s.selection[r.ID] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]struct{})
}

// IsSelected reports membership in the selection set.
func (s *Session) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selection[id]
	return ok
}

// SelectedIDs returns the selection in visible-list order; ids no longer
// visible keep their selection but sort last.
func (s *Session) SelectedIDs() []string {
	visible := s.Visible()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.selection))
	seen := make(map[string]struct{}, len(s.selection))
	for _, r := range visible {
		if _, ok := s.selection[r.ID]; ok {
			out = append(out, r.ID)
			seen[r.ID] = struct{}{}
		}
	}
	for id := range s.selection {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ---- mutations ----

// findLocked returns the fetched resource with the given id, if present.
func (s *Session) findLocked(id string) (models.Resource, bool) {
	for _, r := range s.resources {
		if r.ID == id {
			return r, true
		}
	}
	return models.Resource{}, false
}

// Move reparents a resource. No-op moves and self-parenting are rejected
// before any request is sent. On success the current scope is re-fetched;
// on failure nothing changes client-side.
func (s *Session) Move(ctx context.Context, id string, targetFolderID *string) error {
	if targetFolderID != nil && *targetFolderID == id {
		return ErrSelfMove
	}

	s.mu.Lock()
	if r, ok := s.findLocked(id); ok {
		if sameParent(r.ParentID, targetFolderID) {
			s.mu.Unlock()
			return ErrSameParent
		}
	}
	s.mu.Unlock()

	if err := s.client.Move(ctx, id, targetFolderID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CanBeDragged reports whether a resource may act as a drag source.
func (s *Session) CanBeDragged(r models.Resource) bool {
	return r.Status == models.StatusActive
}

// AcceptsDrop reports whether target can receive r via drag-and-drop.
func (s *Session) AcceptsDrop(target, r models.Resource) bool {
	if !target.IsContainer() || target.ID == r.ID {
		return false
	}
	targetID := target.ID
	return !sameParent(r.ParentID, &targetID)
}

// TogglePin sends the inverse of the resource's pin flag, then re-fetches
// regardless of outcome so the view converges on server state.
func (s *Session) TogglePin(ctx context.Context, r models.Resource) error {
	err := s.client.SetPin(ctx, r.ID, !r.IsPinned)
	if refreshErr := s.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// Delete removes one resource. The server rejects non-empty folders; its
// message is returned verbatim and the displayed list stays untouched.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Open marks a resource viewed, records it in the recents feed, and
// re-fetches so the read flag updates.
func (s *Session) Open(ctx context.Context, r models.Resource) error {
	s.recents.Touch(r.ID)
	if err := s.client.MarkViewed(ctx, r.ID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// BulkPin pins the selection; on success the selection is cleared and the
// scope re-fetched.
func (s *Session) BulkPin(ctx context.Context) error {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	if err := s.client.BulkPin(ctx, ids); err != nil {
		return err
	}
	s.ClearSelection()
	return s.Refresh(ctx)
}

// BulkDelete removes the selection; on success the selection is cleared
// and the scope re-fetched.
func (s *Session) BulkDelete(ctx context.Context) error {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	if err := s.client.BulkDelete(ctx, ids); err != nil {
		return err
	}
	s.ClearSelection()
	return s.Refresh(ctx)
}

// BulkDownload fetches the selection as a zip archive; on success the
// selection is cleared and the scope re-fetched. The caller owns saving
// the payload.
func (s *Session) BulkDownload(ctx context.Context) ([]byte, error) {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	data, err := s.client.BulkDownload(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.ClearSelection()
	if err := s.Refresh(ctx); err != nil {
		return data, err
	}
	return data, nil
}
