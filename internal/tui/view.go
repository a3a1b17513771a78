package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lms-resource-center/internal/models"
)

// View implements tea.Model.
func (a App) View() string {
	if a.mode == modeHelp {
		return a.renderHelp()
	}

	var b strings.Builder

	b.WriteString(a.renderBreadcrumb())
	b.WriteString("\n")
	b.WriteString(a.renderStatusLine())
	b.WriteString("\n")

	switch a.mode {
	case modeSearch:
		b.WriteString("/" + a.searchInput.View() + "\n")
	case modeJump:
		b.WriteString("f " + a.jumpInput.View() + "\n")
	}

	b.WriteString(a.renderList())
	b.WriteString("\n")
	b.WriteString(a.renderMessageLine())
	b.WriteString(a.renderHelpBar())

	content := a.styles.App.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderBreadcrumb() string {
	crumbs := a.session.Breadcrumbs()
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		parts[i] = c.Title
	}
	return a.styles.Breadcrumb.Render(strings.Join(parts, " / "))
}

func (a App) renderStatusLine() string {
	mode := string(a.session.ViewMode())
	sort := fmt.Sprintf("%s %s", a.session.SortBy(), a.session.SortOrder())
	status := fmt.Sprintf("[%s] [sort:%s]", mode, sort)

	if n := len(a.session.SelectedIDs()); n > 0 {
		status += fmt.Sprintf(" [%d selected]", n)
	}
	if a.session.Loading() {
		status += " loading..."
	}
	return a.styles.Status.Render(status)
}

func (a App) renderList() string {
	if len(a.rows) == 0 {
		return a.styles.Empty.Render("(empty)")
	}

	// Reserve lines for the header, status, message, and help bar.
	visible := a.height - 8
	if visible < 5 {
		visible = 5
	}
	offset := 0
	if a.cursor >= visible {
		offset = a.cursor - visible + 1
	}

	var b strings.Builder
	for i := offset; i < len(a.rows) && i < offset+visible; i++ {
		r := a.rows[i]
		if r.kind == rowCategory {
			b.WriteString(a.styles.Category.Render(r.category))
			b.WriteString("\n")
			continue
		}
		b.WriteString(a.renderResource(r.resource, i == a.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) renderResource(r models.Resource, isCursor bool) string {
	var prefix string
	if a.session.IsSelected(r.ID) {
		prefix = "▸ "
	}
	if r.IsPinned {
		prefix += "* "
	}

	title := r.Title
	if r.IsContainer() {
		title += "/"
	}

	meta := a.resourceMeta(r)
	plain := prefix + title
	if meta != "" {
		plain += "  " + meta
	}

	switch {
	case isCursor:
		return a.styles.ItemCursor.Render(plain)
	case a.session.IsSelected(r.ID):
		return a.styles.ItemSelected.Render(plain)
	default:
		line := prefix + title
		if meta != "" {
			line += "  " + a.styles.Meta.Render(meta)
		}
		return a.styles.Item.Render(line)
	}
}

func (a App) resourceMeta(r models.Resource) string {
	var parts []string
	if r.FileType != "" {
		parts = append(parts, r.FileType)
	}
	if r.FileSize > 0 {
		parts = append(parts, formatSize(r.FileSize))
	}
	if !r.IsViewed && !r.IsContainer() {
		parts = append(parts, "new")
	}
	return strings.Join(parts, " · ")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func (a App) renderMessageLine() string {
	if a.message == "" {
		if err := a.session.Err(); err != "" {
			return a.styles.Error.Render("✗ "+err) + "\n"
		}
		return "\n"
	}
	if a.isError {
		return a.styles.Error.Render("✗ "+a.message) + "\n"
	}
	return a.styles.Status.Render(a.message) + "\n"
}

func (a App) renderHelpBar() string {
	hints := []string{
		"j/k move", "l open", "h up", "/ search", "v select",
		"* pin", "d delete", "m mode", "o sort", "? help", "q quit",
	}
	return a.styles.Help.Render(strings.Join(hints, "  "))
}

func (a App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Breadcrumb.Render("keys") + "\n\n")

	sections := []struct {
		title string
		keys  []string
	}{
		{"nav", []string{
			"j/k    move", "g/G    top/bottom", "l      open / enter folder",
			"h      go up", "~      library root", "f      fuzzy jump",
		}},
		{"view", []string{
			"/      search", "m      cycle view mode", "o      cycle sort", "r      refresh",
		}},
		{"act", []string{
			"*      pin/unpin", "d      delete",
		}},
		{"select", []string{
			"v/spc  select", "V      select all visible", "esc    clear selection",
			"P      pin selection", "X      delete selection", "D      download selection",
		}},
	}
	for _, s := range sections {
		b.WriteString(a.styles.Category.Render(s.title) + "\n")
		for _, k := range s.keys {
			b.WriteString("  " + k + "\n")
		}
	}
	b.WriteString("\n" + a.styles.Help.Render("any key to close"))

	content := a.styles.App.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}
