package models

import "testing"

func TestFileTypeForName(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.JPG", FileTypeImage},
		{"diagram.svg", FileTypeImage},
		{"lecture.mp4", FileTypeVideo},
		{"podcast.mp3", FileTypeAudio},
		{"syllabus.pdf", FileTypePDF},
		{"notes.docx", FileTypeDoc},
		{"readme.md", FileTypeDoc},
		{"grades.xlsx", FileTypeXls},
		{"export.csv", FileTypeXls},
		{"slides.pptx", FileTypePpt},
		{"bundle.tar.gz", FileTypeZip},
		{"program.exe", FileTypeOther},
		{"noextension", FileTypeOther},
	}
	for _, tc := range cases {
		if got := FileTypeForName(tc.filename); got != tc.want {
			t.Errorf("FileTypeForName(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestBeforeCreate_NormalizesContainers(t *testing.T) {
	r := Resource{
		Title:    "Term 1",
		Type:     TypeFolder,
		FileSize: 1024,
		FileType: FileTypePDF,
	}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if r.ID == "" {
		t.Error("id not assigned")
	}
	if r.Status != StatusActive {
		t.Errorf("status = %q, want ACTIVE", r.Status)
	}
	if r.FileSize != 0 || r.FileType != "" {
		t.Errorf("container kept file semantics: size=%d type=%q", r.FileSize, r.FileType)
	}
}

func TestBeforeCreate_KeepsLeafFields(t *testing.T) {
	r := Resource{
		ID:       "fixed",
		Title:    "Worksheet",
		Type:     TypeFile,
		FileSize: 2048,
		FileType: FileTypePDF,
	}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if r.ID != "fixed" {
		t.Error("existing id overwritten")
	}
	if r.FileSize != 2048 || r.FileType != FileTypePDF {
		t.Error("leaf file fields must not be touched")
	}
}

func TestIsContainer(t *testing.T) {
	for typ, want := range map[ResourceType]bool{
		TypeFolder:        true,
		TypeVideoPlaylist: true,
		TypeFile:          false,
		TypeLink:          false,
	} {
		r := Resource{Type: typ}
		if got := r.IsContainer(); got != want {
			t.Errorf("IsContainer(%s) = %v, want %v", typ, got, want)
		}
	}
}

func TestFillTagNames(t *testing.T) {
	r := Resource{Tags: []Tag{{Name: "exam"}, {Name: "week-1"}}}
	r.FillTagNames()
	if len(r.TagNames) != 2 || r.TagNames[0] != "exam" || r.TagNames[1] != "week-1" {
		t.Errorf("TagNames = %v", r.TagNames)
	}

	empty := Resource{}
	empty.FillTagNames()
	if empty.TagNames == nil {
		t.Error("TagNames should be an empty slice, not nil, so it encodes as []")
	}
}
