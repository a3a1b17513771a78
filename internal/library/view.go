package library

import (
	"sort"
	"strings"
	"time"

	"lms-resource-center/internal/models"
)

// ViewMode is the coarse view filter applied before search and structured
// filters.
type ViewMode string

const (
	ViewAll       ViewMode = "all"
	ViewFavorites ViewMode = "favorites"
	ViewRecent    ViewMode = "recent"
	ViewUnread    ViewMode = "unread"
)

// ViewOptions are the inputs of the view engine. Recent supplies the
// externally-owned recently-viewed id list, most recent first.
type ViewOptions struct {
	Mode      ViewMode
	Search    string
	FileType  string
	HasPin    bool
	HasExpiry bool
	Tags      string // comma-separated, case-insensitive
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    SortField
	SortOrder SortOrder
	Recent    []string
}

// ApplyView filters and orders a resource list. It is a pure function: the
// input slice is never modified and repeated calls yield identical output.
func ApplyView(resources []models.Resource, opts ViewOptions) []models.Resource {
	list := filterByMode(resources, opts)
	list = filterBySearch(list, opts.Search)
	list = filterStructured(list, opts)

	// The recent view keeps recency order; sort criteria do not apply.
	if opts.Mode != ViewRecent {
		sortResources(list, opts.SortBy, opts.SortOrder)
	}
	return list
}

func filterByMode(resources []models.Resource, opts ViewOptions) []models.Resource {
	switch opts.Mode {
	case ViewFavorites:
		out := make([]models.Resource, 0, len(resources))
		for _, r := range resources {
			if r.IsPinned {
				out = append(out, r)
			}
		}
		return out
	case ViewUnread:
		out := make([]models.Resource, 0, len(resources))
		for _, r := range resources {
			if !r.IsViewed {
				out = append(out, r)
			}
		}
		return out
	case ViewRecent:
		byID := make(map[string]models.Resource, len(resources))
		for _, r := range resources {
			byID[r.ID] = r
		}
		out := make([]models.Resource, 0, len(opts.Recent))
		for _, id := range opts.Recent {
			if r, ok := byID[id]; ok {
				out = append(out, r)
			}
		}
		return out
	default:
		out := make([]models.Resource, len(resources))
		copy(out, resources)
		return out
	}
}

// matchesSearch is a case-insensitive substring match over title,
// description and tags.
func matchesSearch(r models.Resource, term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, tag := range r.TagNames {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func filterBySearch(resources []models.Resource, search string) []models.Resource {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return resources
	}
	out := make([]models.Resource, 0, len(resources))
	for _, r := range resources {
		if matchesSearch(r, term) {
			out = append(out, r)
		}
	}
	return out
}

func filterStructured(resources []models.Resource, opts ViewOptions) []models.Resource {
	tagFilter := parseTagFilter(opts.Tags)

	out := make([]models.Resource, 0, len(resources))
	for _, r := range resources {
		if opts.FileType != "" && opts.FileType != "all" && r.FileType != opts.FileType {
			continue
		}
		if opts.HasPin && !r.IsPinned {
			continue
		}
		if opts.HasExpiry && r.ExpiresAt == nil {
			continue
		}
		if opts.StartDate != nil && r.CreatedAt.Before(*opts.StartDate) {
			continue
		}
		if opts.EndDate != nil && r.CreatedAt.After(*opts.EndDate) {
			continue
		}
		if len(tagFilter) > 0 && !hasAnyTag(r, tagFilter) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseTagFilter(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasAnyTag(r models.Resource, wanted []string) bool {
	for _, tag := range r.TagNames {
		lower := strings.ToLower(tag)
		for _, w := range wanted {
			if lower == w {
				return true
			}
		}
	}
	return false
}

// sortResources orders the list in place. Default is date descending.
func sortResources(resources []models.Resource, by SortField, order SortOrder) {
	if by == "" {
		by = SortByDate
	}
	if order == "" {
		order = OrderDesc
	}

	less := func(a, b models.Resource) bool {
		switch by {
		case SortByName:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortBySize:
			return a.FileSize < b.FileSize
		case SortByType:
			return strings.ToLower(string(a.Type)) < strings.ToLower(string(b.Type))
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(resources, func(i, j int) bool {
		if order == OrderDesc {
			return less(resources[j], resources[i])
		}
		return less(resources[i], resources[j])
	})
}

// Display categories, in render order.
const (
	CategoryFolders   = "Folders"
	CategoryPlaylists = "Video Playlists"
	CategoryDocuments = "Documents"
	CategoryMedia     = "Media"
	CategoryOther     = "Other"
)

var categoryOrder = []string{
	CategoryFolders,
	CategoryPlaylists,
	CategoryDocuments,
	CategoryMedia,
	CategoryOther,
}

// Group is one display category with its resources in upstream order.
type Group struct {
	Category  string
	Resources []models.Resource
}

func categoryFor(r models.Resource) string {
	// Folders always group as folders, whatever file_type they carry.
	switch r.Type {
	case models.TypeFolder:
		return CategoryFolders
	case models.TypeVideoPlaylist:
		return CategoryPlaylists
	}
	switch r.FileType {
	case models.FileTypePDF, models.FileTypeDoc, models.FileTypeXls, models.FileTypePpt:
		return CategoryDocuments
	case models.FileTypeImage, models.FileTypeVideo, models.FileTypeAudio:
		return CategoryMedia
	default:
		return CategoryOther
	}
}

// GroupResources partitions an ordered list into display categories. Every
// resource lands in exactly one category; empty categories are omitted.
func GroupResources(resources []models.Resource) []Group {
	buckets := make(map[string][]models.Resource, len(categoryOrder))
	for _, r := range resources {
		cat := categoryFor(r)
		buckets[cat] = append(buckets[cat], r)
	}

	groups := make([]Group, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		if len(buckets[cat]) > 0 {
			groups = append(groups, Group{Category: cat, Resources: buckets[cat]})
		}
	}
	return groups
}
