package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceType distinguishes navigable containers from leaf entries.
type ResourceType string

const (
	TypeFolder        ResourceType = "FOLDER"
	TypeVideoPlaylist ResourceType = "VIDEO_PLAYLIST"
	TypeFile          ResourceType = "FILE"
	TypeLink          ResourceType = "LINK"
)

// Resource status values. Listing endpoints default to ACTIVE.
const (
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
)

// File type sub-classification for file-bearing resources.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypeAudio = "audio"
	FileTypePDF   = "pdf"
	FileTypeDoc   = "doc"
	FileTypeXls   = "xls"
	FileTypePpt   = "ppt"
	FileTypeZip   = "zip"
	FileTypeOther = "other"
)

// Resource is a catalog entry in the library: a folder, a video playlist
// container, or a file/link leaf.
type Resource struct {
	ID          string       `json:"id" gorm:"primarykey"`
	UserID      uint         `json:"-" gorm:"not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Type        ResourceType `json:"type" gorm:"not null;index"`
	FileType    string       `json:"file_type,omitempty"`
	ParentID    *string      `json:"parent_id" gorm:"index"`
	FileSize    int64        `json:"file_size"`
	IsPinned    bool         `json:"is_pinned"`
	IsViewed    bool         `json:"is_viewed"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	URL         string       `json:"url,omitempty"`
	Status      string       `json:"status" gorm:"not null;default:ACTIVE;index"`
	StoragePath string       `json:"-"`
	MimeType    string       `json:"mime_type,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Tags     []Tag      `json:"-" gorm:"many2many:resource_tags;"`
	TagNames []string   `json:"tags" gorm:"-"`
	Children []Resource `json:"children,omitempty" gorm:"-"`
}

// BeforeCreate assigns an id and normalizes container fields.
func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	// Containers are navigable only; they never carry file semantics.
	if r.IsContainer() {
		r.FileSize = 0
		r.FileType = ""
	}
	return nil
}

// IsContainer reports whether the resource can hold children.
func (r *Resource) IsContainer() bool {
	return r.Type == TypeFolder || r.Type == TypeVideoPlaylist
}

// FillTagNames flattens the Tags association into the wire field.
func (r *Resource) FillTagNames() {
	names := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		names = append(names, t.Name)
	}
	r.TagNames = names
}

// TableName specifies the table name for the Resource model.
func (Resource) TableName() string {
	return "resources"
}

// FileTypeForName classifies a filename by extension.
func FileTypeForName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return FileTypeImage
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return FileTypeVideo
	case ".mp3", ".wav", ".ogg", ".m4a", ".flac":
		return FileTypeAudio
	case ".pdf":
		return FileTypePDF
	case ".doc", ".docx", ".txt", ".md", ".rtf", ".odt":
		return FileTypeDoc
	case ".xls", ".xlsx", ".csv", ".ods":
		return FileTypeXls
	case ".ppt", ".pptx", ".odp":
		return FileTypePpt
	case ".zip", ".rar", ".7z", ".tar", ".gz":
		return FileTypeZip
	default:
		return FileTypeOther
	}
}
