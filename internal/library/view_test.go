package library

import (
	"reflect"
	"testing"
	"time"

	"lms-resource-center/internal/models"
)

func res(id, title string, typ models.ResourceType, opts ...func(*models.Resource)) models.Resource {
	r := models.Resource{
		ID:        id,
		Title:     title,
		Type:      typ,
		Status:    models.StatusActive,
		CreatedAt: time.Unix(1000, 0),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func withFileType(ft string) func(*models.Resource) {
	return func(r *models.Resource) { r.FileType = ft }
}

func withCreated(sec int64) func(*models.Resource) {
	return func(r *models.Resource) { r.CreatedAt = time.Unix(sec, 0) }
}

func withPinned() func(*models.Resource) {
	return func(r *models.Resource) { r.IsPinned = true }
}

func withViewed() func(*models.Resource) {
	return func(r *models.Resource) { r.IsViewed = true }
}

func withTags(tags ...string) func(*models.Resource) {
	return func(r *models.Resource) { r.TagNames = tags }
}

func withSize(n int64) func(*models.Resource) {
	return func(r *models.Resource) { r.FileSize = n }
}

func ids(resources []models.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.ID
	}
	return out
}

func TestApplyView_PureFunction(t *testing.T) {
	input := []models.Resource{
		res("a", "Alpha", models.TypeFile, withFileType(models.FileTypePDF), withCreated(3)),
		res("b", "Beta", models.TypeFolder, withCreated(1)),
		res("c", "Gamma", models.TypeFile, withFileType(models.FileTypeImage), withCreated(2)),
	}
	opts := ViewOptions{Mode: ViewAll, SortBy: SortByDate, SortOrder: OrderDesc}

	first := ApplyView(input, opts)
	second := ApplyView(input, opts)

	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("repeated invocations differ: %v vs %v", ids(first), ids(second))
	}
	// The input order must survive the call.
	if input[0].ID != "a" || input[1].ID != "b" || input[2].ID != "c" {
		t.Error("ApplyView mutated its input slice")
	}
}

func TestApplyView_SortByDate(t *testing.T) {
	input := []models.Resource{
		res("one", "One", models.TypeFile, withCreated(1)),
		res("three", "Three", models.TypeFile, withCreated(3)),
		res("two", "Two", models.TypeFile, withCreated(2)),
	}

	got := ApplyView(input, ViewOptions{SortBy: SortByDate, SortOrder: OrderDesc})
	if want := []string{"three", "two", "one"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("date desc: got %v, want %v", ids(got), want)
	}

	got = ApplyView(input, ViewOptions{SortBy: SortByDate, SortOrder: OrderAsc})
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("date asc: got %v, want %v", ids(got), want)
	}
}

func TestApplyView_SortByNameAndSize(t *testing.T) {
	input := []models.Resource{
		res("b", "banana", models.TypeFile, withSize(30)),
		res("a", "Apple", models.TypeFile, withSize(10)),
		res("c", "cherry", models.TypeFile, withSize(20)),
	}

	got := ApplyView(input, ViewOptions{SortBy: SortByName, SortOrder: OrderAsc})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("name asc is case-insensitive: got %v, want %v", ids(got), want)
	}

	got = ApplyView(input, ViewOptions{SortBy: SortBySize, SortOrder: OrderDesc})
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("size desc: got %v, want %v", ids(got), want)
	}
}

func TestApplyView_SearchCaseInsensitive(t *testing.T) {
	input := []models.Resource{
		res("r", "Annual Report", models.TypeFile),
		res("x", "Meeting Notes", models.TypeFile),
	}

	for _, term := range []string{"annual", "REPORT", "al rep"} {
		got := ApplyView(input, ViewOptions{Search: term})
		if len(got) != 1 || got[0].ID != "r" {
			t.Errorf("search %q: got %v, want [r]", term, ids(got))
		}
	}
}

func TestApplyView_SearchCoversDescriptionAndTags(t *testing.T) {
	input := []models.Resource{
		res("d", "Handout", models.TypeFile, func(r *models.Resource) { r.Description = "Physics syllabus" }),
		res("t", "Slides", models.TypeFile, withTags("Chemistry", "week-1")),
		res("n", "Video", models.TypeFile),
	}

	if got := ApplyView(input, ViewOptions{Search: "physics"}); len(got) != 1 || got[0].ID != "d" {
		t.Errorf("description search: got %v", ids(got))
	}
	if got := ApplyView(input, ViewOptions{Search: "chem"}); len(got) != 1 || got[0].ID != "t" {
		t.Errorf("tag search: got %v", ids(got))
	}
}

func TestApplyView_ViewModes(t *testing.T) {
	input := []models.Resource{
		res("pinned", "Pinned", models.TypeFile, withPinned()),
		res("read", "Read", models.TypeFile, withViewed()),
		res("plain", "Plain", models.TypeFile),
	}

	got := ApplyView(input, ViewOptions{Mode: ViewFavorites})
	if want := []string{"pinned"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("favorites: got %v, want %v", ids(got), want)
	}

	got = ApplyView(input, ViewOptions{Mode: ViewUnread, SortBy: SortByName, SortOrder: OrderAsc})
	if want := []string{"pinned", "plain"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("unread: got %v, want %v", ids(got), want)
	}
}

func TestApplyView_RecentKeepsRecencyOrder(t *testing.T) {
	input := []models.Resource{
		res("a", "A", models.TypeFile, withCreated(1)),
		res("b", "B", models.TypeFile, withCreated(2)),
		res("c", "C", models.TypeFile, withCreated(3)),
	}

	// Sort criteria must not reorder the recency ranking.
	got := ApplyView(input, ViewOptions{
		Mode:      ViewRecent,
		Recent:    []string{"b", "a", "missing"},
		SortBy:    SortByDate,
		SortOrder: OrderDesc,
	})
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("recent: got %v, want %v", ids(got), want)
	}
}

func TestApplyView_StructuredFiltersAreConjunctive(t *testing.T) {
	expiry := time.Unix(5000, 0)
	input := []models.Resource{
		res("match", "Match", models.TypeFile, withFileType(models.FileTypePDF), withPinned(),
			func(r *models.Resource) { r.ExpiresAt = &expiry }, withTags("exam")),
		res("wrongtype", "WrongType", models.TypeFile, withFileType(models.FileTypeImage), withPinned(),
			func(r *models.Resource) { r.ExpiresAt = &expiry }, withTags("exam")),
		res("nopin", "NoPin", models.TypeFile, withFileType(models.FileTypePDF),
			func(r *models.Resource) { r.ExpiresAt = &expiry }, withTags("exam")),
		res("notag", "NoTag", models.TypeFile, withFileType(models.FileTypePDF), withPinned(),
			func(r *models.Resource) { r.ExpiresAt = &expiry }),
	}

	got := ApplyView(input, ViewOptions{
		FileType:  models.FileTypePDF,
		HasPin:    true,
		HasExpiry: true,
		Tags:      "EXAM, midterm",
	})
	if want := []string{"match"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("conjunctive filters: got %v, want %v", ids(got), want)
	}
}

func TestApplyView_DateRange(t *testing.T) {
	input := []models.Resource{
		res("old", "Old", models.TypeFile, withCreated(100)),
		res("mid", "Mid", models.TypeFile, withCreated(200)),
		res("new", "New", models.TypeFile, withCreated(300)),
	}
	start := time.Unix(150, 0)
	end := time.Unix(250, 0)

	got := ApplyView(input, ViewOptions{StartDate: &start, EndDate: &end})
	if want := []string{"mid"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("date range: got %v, want %v", ids(got), want)
	}

	// Each bound also works on its own.
	got = ApplyView(input, ViewOptions{StartDate: &start, SortBy: SortByDate, SortOrder: OrderAsc})
	if want := []string{"mid", "new"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("start only: got %v, want %v", ids(got), want)
	}
	got = ApplyView(input, ViewOptions{EndDate: &end, SortBy: SortByDate, SortOrder: OrderAsc})
	if want := []string{"old", "mid"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("end only: got %v, want %v", ids(got), want)
	}
}

func TestGroupResources_Partition(t *testing.T) {
	input := []models.Resource{
		res("f", "Folder", models.TypeFolder),
		res("p", "Playlist", models.TypeVideoPlaylist),
		res("doc", "Doc", models.TypeFile, withFileType(models.FileTypeDoc)),
		res("pdf", "PDF", models.TypeFile, withFileType(models.FileTypePDF)),
		res("img", "Image", models.TypeFile, withFileType(models.FileTypeImage)),
		res("zip", "Archive", models.TypeFile, withFileType(models.FileTypeZip)),
		res("link", "Link", models.TypeLink),
	}

	groups := GroupResources(input)

	total := 0
	seen := make(map[string]bool)
	for _, g := range groups {
		if len(g.Resources) == 0 {
			t.Errorf("empty category %q emitted", g.Category)
		}
		for _, r := range g.Resources {
			if seen[r.ID] {
				t.Errorf("resource %s appears in more than one category", r.ID)
			}
			seen[r.ID] = true
			total++
		}
	}
	if total != len(input) {
		t.Errorf("partition lost resources: %d grouped of %d", total, len(input))
	}

	want := []string{CategoryFolders, CategoryPlaylists, CategoryDocuments, CategoryMedia, CategoryOther}
	for i, g := range groups {
		if g.Category != want[i] {
			t.Errorf("category order: got %q at %d, want %q", g.Category, i, want[i])
		}
	}
}

func TestGroupResources_FolderIgnoresFileType(t *testing.T) {
	// A folder carrying a stray file_type still groups as a folder.
	input := []models.Resource{
		res("f", "Odd Folder", models.TypeFolder, withFileType(models.FileTypePDF)),
	}
	groups := GroupResources(input)
	if len(groups) != 1 || groups[0].Category != CategoryFolders {
		t.Errorf("got %+v, want single Folders group", groups)
	}
}

func TestGroupResources_OmitsEmptyCategories(t *testing.T) {
	input := []models.Resource{
		res("pdf", "PDF", models.TypeFile, withFileType(models.FileTypePDF)),
	}
	groups := GroupResources(input)
	if len(groups) != 1 || groups[0].Category != CategoryDocuments {
		t.Errorf("got %+v, want only Documents", groups)
	}
}

func TestGroupResources_PreservesUpstreamOrder(t *testing.T) {
	input := []models.Resource{
		res("b", "B", models.TypeFile, withFileType(models.FileTypePDF)),
		res("a", "A", models.TypeFile, withFileType(models.FileTypePDF)),
	}
	groups := GroupResources(input)
	if got := ids(groups[0].Resources); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("category order must preserve upstream order, got %v", got)
	}
}
