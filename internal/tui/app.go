package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"lms-resource-center/internal/library"
	"lms-resource-center/internal/models"
)

// searchDebounce is how long typing must pause before a search request
// is dispatched.
const searchDebounce = 300 * time.Millisecond

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeJump
	modeHelp
)

type rowKind int

const (
	rowCategory rowKind = iota
	rowResource
)

// row is one rendered line of the grouped list.
type row struct {
	kind     rowKind
	category string
	resource models.Resource
}

type opDoneMsg struct{ err error }

type searchTickMsg struct{ seq int }

type downloadDoneMsg struct {
	path string
	err  error
}

// App is the main bubbletea model for the library browser.
type App struct {
	session *library.Session
	keys    KeyMap
	styles  Styles

	mode   mode
	rows   []row
	cursor int

	searchInput textinput.Model
	searchSeq   int
	jumpInput   textinput.Model

	message string
	isError bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session *library.Session
	Keys    *KeyMap
	Styles  *Styles
}

// NewApp creates a browser over an existing session.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	search := textinput.New()
	search.Placeholder = "search library"
	search.CharLimit = 120

	jump := textinput.New()
	jump.Placeholder = "jump to"
	jump.CharLimit = 60

	a := App{
		session:     params.Session,
		keys:        keys,
		styles:      styles,
		searchInput: search,
		jumpInput:   jump,
		width:       80,
		height:      24,
	}
	a.rebuildRows()
	return a
}

// rebuildRows flattens the grouped view into renderable lines.
func (a *App) rebuildRows() {
	a.rows = a.rows[:0]
	for _, g := range a.session.Groups() {
		a.rows = append(a.rows, row{kind: rowCategory, category: g.Category})
		for _, r := range g.Resources {
			a.rows = append(a.rows, row{kind: rowResource, resource: r})
		}
	}
	a.clampCursor()
}

// clampCursor keeps the cursor on a resource row.
func (a *App) clampCursor() {
	if len(a.rows) == 0 {
		a.cursor = 0
		return
	}
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.rows[a.cursor].kind == rowCategory {
		a.moveCursor(1)
	}
}

// moveCursor steps over category headers in the given direction.
func (a *App) moveCursor(dir int) {
	i := a.cursor
	for {
		i += dir
		if i < 0 || i >= len(a.rows) {
			return
		}
		if a.rows[i].kind == rowResource {
			a.cursor = i
			return
		}
	}
}

func (a *App) cursorResource() (models.Resource, bool) {
	if a.cursor < len(a.rows) && a.rows[a.cursor].kind == rowResource {
		return a.rows[a.cursor].resource, true
	}
	return models.Resource{}, false
}

// Cursor returns the index of the cursor row.
func (a App) Cursor() int { return a.cursor }

// Rows returns the current rendered rows.
func (a App) Rows() []row { return a.rows }

// CursorResource returns the resource under the cursor.
func (a App) CursorResource() (models.Resource, bool) {
	return a.cursorResource()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.opCmd(func(ctx context.Context) error {
		return a.session.Refresh(ctx)
	})
}

// opCmd runs a session call off the update loop and reports its outcome.
func (a App) opCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op(context.Background())}
	}
}

func (a App) downloadCmd() tea.Cmd {
	session := a.session
	return func() tea.Msg {
		data, err := session.BulkDownload(context.Background())
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		if data == nil {
			return downloadDoneMsg{}
		}
		path := fmt.Sprintf("resources-%s.zip", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case opDoneMsg:
		if msg.err != nil {
			a.message = msg.err.Error()
			a.isError = true
		} else {
			a.message = ""
			a.isError = false
		}
		a.rebuildRows()
		return a, nil

	case downloadDoneMsg:
		if msg.err != nil {
			a.message = msg.err.Error()
			a.isError = true
		} else if msg.path != "" {
			a.message = "saved " + msg.path
			a.isError = false
		}
		a.rebuildRows()
		return a, nil

	case searchTickMsg:
		if msg.seq != a.searchSeq {
			return a, nil
		}
		term := a.searchInput.Value()
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.SetSearch(ctx, term)
		})

	case tea.KeyMsg:
		switch a.mode {
		case modeSearch:
			return a.updateSearch(msg)
		case modeJump:
			return a.updateJump(msg)
		case modeHelp:
			a.mode = modeNormal
			return a, nil
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		a.clampCursor()

	case key.Matches(msg, a.keys.Bottom):
		a.cursor = len(a.rows) - 1
		a.clampCursor()

	case key.Matches(msg, a.keys.Enter):
		r, ok := a.cursorResource()
		if !ok {
			return a, nil
		}
		if r.IsContainer() {
			a.cursor = 0
			return a, a.opCmd(func(ctx context.Context) error {
				return a.session.Descend(ctx, r)
			})
		}
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.Open(ctx, r)
		})

	case key.Matches(msg, a.keys.Back):
		a.cursor = 0
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.Up(ctx)
		})

	case key.Matches(msg, a.keys.Root):
		a.cursor = 0
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.JumpTo(ctx, 0)
		})

	case key.Matches(msg, a.keys.Pin):
		r, ok := a.cursorResource()
		if !ok {
			return a, nil
		}
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.TogglePin(ctx, r)
		})

	case key.Matches(msg, a.keys.Delete):
		r, ok := a.cursorResource()
		if !ok {
			return a, nil
		}
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.Delete(ctx, r.ID)
		})

	case key.Matches(msg, a.keys.Select):
		if r, ok := a.cursorResource(); ok {
			a.session.ToggleSelect(r.ID)
			a.moveCursor(1)
		}

	case key.Matches(msg, a.keys.SelectAll):
		a.session.SelectAllVisible()

	case key.Matches(msg, a.keys.ClearSelect):
		a.session.ClearSelection()

	case key.Matches(msg, a.keys.BulkPin):
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.BulkPin(ctx)
		})

	case key.Matches(msg, a.keys.BulkDelete):
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.BulkDelete(ctx)
		})

	case key.Matches(msg, a.keys.BulkDownload):
		return a, a.downloadCmd()

	case key.Matches(msg, a.keys.CycleMode):
		a.session.SetViewMode(nextViewMode(a.session.ViewMode()))
		a.rebuildRows()

	case key.Matches(msg, a.keys.CycleSort):
		by, order := nextSort(a.session.SortBy(), a.session.SortOrder())
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.SetSort(ctx, by, order)
		})

	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Jump):
		a.mode = modeJump
		a.jumpInput.SetValue("")
		a.jumpInput.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Refresh):
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.Refresh(ctx)
		})

	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.SetSearch(ctx, "")
		})

	case tea.KeyEnter:
		a.mode = modeNormal
		a.searchInput.Blur()
		term := a.searchInput.Value()
		return a, a.opCmd(func(ctx context.Context) error {
			return a.session.SetSearch(ctx, term)
		})
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)

	// Debounce: only the tick matching the latest keystroke fires.
	a.searchSeq++
	seq := a.searchSeq
	tick := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
	return a, tea.Batch(cmd, tick)
}

func (a App) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.mode = modeNormal
		a.jumpInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.jumpInput, cmd = a.jumpInput.Update(msg)
	a.jumpToMatch(a.jumpInput.Value())
	return a, cmd
}

// rowTitles implements fuzzy.Source over the resource rows.
type rowTitles []row

func (rt rowTitles) String(i int) string { return rt[i].resource.Title }
func (rt rowTitles) Len() int            { return len(rt) }

// jumpToMatch moves the cursor to the best fuzzy match for the query.
func (a *App) jumpToMatch(query string) {
	if query == "" {
		return
	}
	candidates := make(rowTitles, 0, len(a.rows))
	indexes := make([]int, 0, len(a.rows))
	for i, r := range a.rows {
		if r.kind == rowResource {
			candidates = append(candidates, r)
			indexes = append(indexes, i)
		}
	}
	matches := fuzzy.FindFrom(query, candidates)
	if len(matches) > 0 {
		a.cursor = indexes[matches[0].Index]
	}
}

func nextViewMode(m library.ViewMode) library.ViewMode {
	switch m {
	case library.ViewAll:
		return library.ViewFavorites
	case library.ViewFavorites:
		return library.ViewRecent
	case library.ViewRecent:
		return library.ViewUnread
	default:
		return library.ViewAll
	}
}

func nextSort(by library.SortField, order library.SortOrder) (library.SortField, library.SortOrder) {
	switch by {
	case library.SortByDate:
		return library.SortByName, library.OrderAsc
	case library.SortByName:
		return library.SortBySize, library.OrderDesc
	case library.SortBySize:
		return library.SortByType, library.OrderAsc
	default:
		return library.SortByDate, library.OrderDesc
	}
}
