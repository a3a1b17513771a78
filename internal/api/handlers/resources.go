package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"lms-resource-center/internal/config"
	"lms-resource-center/internal/database"
	"lms-resource-center/internal/models"
	"lms-resource-center/internal/storage"
	"lms-resource-center/internal/utils"
	"lms-resource-center/internal/websocket"

	"github.com/gin-gonic/gin"
)

var (
	storageMu       sync.Mutex
	storageInstance storage.Storage
)

// storageProvider returns the process-wide storage backend. Only a
// successful initialization is cached; after a failure the next request
// retries from scratch.
func storageProvider() (storage.Storage, error) {
	storageMu.Lock()
	defer storageMu.Unlock()
	if storageInstance != nil {
		return storageInstance, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	inst, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}
	storageInstance = inst
	return storageInstance, nil
}

var sortColumns = map[string]string{
	"name": "title",
	"size": "file_size",
	"type": "type",
	"date": "created_at",
}

// ListResources handles the scoped resource listing with search, filters
// and sorting.
func ListResources(c *gin.Context) {
	var resources []models.Resource
	userID, _ := c.Get("user_id")
	db := database.GetDB()

	page := utils.ParseIntOption(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntOption(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	status := c.DefaultQuery("status", models.StatusActive)
	search := c.Query("search")
	parentID := c.Query("parent_id")
	fileType := c.Query("file_type")
	tags := c.Query("tags")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	query := db.Model(&models.Resource{}).
		Where("resources.user_id = ? AND resources.status = ?", userID, status)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("resources.title ILIKE ? OR resources.description ILIKE ?", pattern, pattern)
	}

	if parentID != "" {
		if parentID == "root" {
			query = query.Where("resources.parent_id IS NULL")
		} else {
			query = query.Where("resources.parent_id = ?", parentID)
		}
	}

	if fileType != "" && fileType != "all" {
		query = query.Where("resources.file_type = ?", fileType)
	}

	if utils.ParseBoolOption(c.Query("has_pin")) {
		query = query.Where("resources.is_pinned = true")
	}

	if utils.ParseBoolOption(c.Query("has_expiry")) {
		query = query.Where("resources.expires_at IS NOT NULL")
	}

	if startDate != "" {
		if t, err := time.Parse(time.RFC3339, startDate); err == nil {
			query = query.Where("resources.created_at >= ?", t)
		}
	}
	if endDate != "" {
		if t, err := time.Parse(time.RFC3339, endDate); err == nil {
			query = query.Where("resources.created_at <= ?", t)
		}
	}

	if tags != "" {
		tagNames := utils.SplitCSV(tags)
		if len(tagNames) > 0 {
			query = query.
				Joins("JOIN resource_tags ON resource_tags.resource_id = resources.id").
				Joins("JOIN tags ON tags.id = resource_tags.tag_id").
				Where("tags.name IN ?", tagNames).
				Group("resources.id")
		}
	}

	column, ok := sortColumns[c.DefaultQuery("sort_by", "date")]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if c.DefaultQuery("sort_order", "desc") == "asc" {
		order = "ASC"
	}

	var total int64
	if err := db.Table("(?) as counted", query).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count resources"})
		return
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Order(fmt.Sprintf("resources.%s %s", column, order)).
		Preload("Tags").
		Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	for i := range resources {
		resources[i].FillTagNames()
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": resources,
		"pagination": gin.H{
			"current_page": page,
			"total_pages":  (total + int64(limit) - 1) / int64(limit),
			"total_items":  total,
			"per_page":     limit,
		},
	})
}

// GetResource returns a single resource; containers include their children.
func GetResource(c *gin.Context) {
	userID, _ := c.Get("user_id")
	var resource models.Resource

	if err := database.GetDB().Preload("Tags").
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	resource.FillTagNames()

	if resource.IsContainer() {
		var children []models.Resource
		if err := database.GetDB().Preload("Tags").
			Where("parent_id = ? AND user_id = ? AND status = ?", resource.ID, userID, models.StatusActive).
			Order("created_at DESC").
			Find(&children).Error; err == nil {
			for i := range children {
				children[i].FillTagNames()
			}
			resource.Children = children
		}
	}

	c.JSON(http.StatusOK, resource)
}

// CreateResource creates folders, playlists and link resources. Files come
// in through UploadResource.
func CreateResource(c *gin.Context) {
	var input struct {
		Title       string     `json:"title" binding:"required,min=1,max=255"`
		Description string     `json:"description"`
		Type        string     `json:"type" binding:"required"`
		ParentID    *string    `json:"parent_id"`
		URL         string     `json:"url"`
		ExpiresAt   *time.Time `json:"expires_at"`
		Tags        []string   `json:"tags"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: title and type are required"})
		return
	}

	typ := models.ResourceType(input.Type)
	switch typ {
	case models.TypeFolder, models.TypeVideoPlaylist, models.TypeLink:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource type"})
		return
	}

	userID, _ := c.Get("user_id")

	if input.ParentID != nil {
		if _, ok := containerForUser(*input.ParentID, userID.(uint)); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent folder not found"})
			return
		}
	}

	resource := models.Resource{
		UserID:      userID.(uint),
		Title:       input.Title,
		Description: input.Description,
		Type:        typ,
		ParentID:    input.ParentID,
		URL:         input.URL,
		ExpiresAt:   input.ExpiresAt,
	}

	tags, err := findOrCreateTags(input.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tags"})
		return
	}
	resource.Tags = tags

	if err := database.GetDB().Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}
	resource.FillTagNames()

	websocket.GetHub().PublishResourceChange(userID.(uint), websocket.ResourceCreated, resource.ID, resource.ParentID)
	c.JSON(http.StatusCreated, resource)
}

// MoveResource reparents a resource. Self-moves and cycles are rejected.
func MoveResource(c *gin.Context) {
	var input struct {
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	userID, _ := c.Get("user_id")
	var resource models.Resource
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	if input.ParentID != nil {
		if *input.ParentID == resource.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move a resource into itself"})
			return
		}
		target, ok := containerForUser(*input.ParentID, userID.(uint))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target folder not found"})
			return
		}
		if isDescendant(resource.ID, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move a folder into its own subtree"})
			return
		}
	}

	if err := database.GetDB().Model(&resource).Update("parent_id", input.ParentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move resource"})
		return
	}

	websocket.GetHub().PublishResourceChange(userID.(uint), websocket.ResourceMoved, resource.ID, input.ParentID)
	c.JSON(http.StatusOK, gin.H{"message": "Resource moved successfully"})
}

// PinResource sets the pin flag to the requested value.
func PinResource(c *gin.Context) {
	var input struct {
		IsPinned *bool `json:"is_pinned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_pinned is required"})
		return
	}

	userID, _ := c.Get("user_id")
	var resource models.Resource
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	if err := database.GetDB().Model(&resource).Update("is_pinned", *input.IsPinned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pin"})
		return
	}

	websocket.GetHub().PublishResourceChange(userID.(uint), websocket.ResourcePinned, resource.ID, resource.ParentID)
	c.JSON(http.StatusOK, gin.H{"message": "Pin updated"})
}

// MarkViewed flags a resource as read for the current user.
func MarkViewed(c *gin.Context) {
	userID, _ := c.Get("user_id")
	result := database.GetDB().Model(&models.Resource{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Update("is_viewed", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark resource viewed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource marked viewed"})
}

// DeleteResource removes a single resource. Non-empty containers are
// rejected.
func DeleteResource(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("id")

	var resource models.Resource
	if err := database.GetDB().Where("id = ? AND user_id = ?", id, userID).First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	if resource.IsContainer() {
		var childCount int64
		if err := database.GetDB().Model(&models.Resource{}).
			Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check folder contents"})
			return
		}
		if childCount > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete folder containing resources"})
			return
		}
	}

	if err := database.GetDB().Delete(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		return
	}

	if resource.StoragePath != "" {
		if provider, err := storageProvider(); err == nil {
			// Blob cleanup is best effort; the row is already gone.
			provider.Delete(resource.StoragePath)
		}
	}

	websocket.GetHub().PublishResourceChange(userID.(uint), websocket.ResourceDeleted, resource.ID, resource.ParentID)
	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}

// ServeResourceFile streams a file-bearing resource's blob. ?thumb=true
// serves the stored thumbnail for images.
func ServeResourceFile(c *gin.Context) {
	userID, _ := c.Get("user_id")
	var resource models.Resource
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	if resource.StoragePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resource has no stored file"})
		return
	}

	provider, err := storageProvider()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage unavailable"})
		return
	}

	key := resource.StoragePath
	contentType := resource.MimeType
	if utils.ParseBoolOption(c.Query("thumb")) && resource.FileType == models.FileTypeImage {
		key = key + ".thumb.jpg"
		contentType = "image/jpeg"
	}

	reader, err := provider.Download(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found in storage"})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", resource.Title))
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}

// containerForUser loads a container-typed resource owned by the user.
func containerForUser(id string, userID uint) (*models.Resource, bool) {
	var target models.Resource
	if err := database.GetDB().Where("id = ? AND user_id = ?", id, userID).First(&target).Error; err != nil {
		return nil, false
	}
	if !target.IsContainer() {
		return nil, false
	}
	return &target, true
}

// isDescendant walks up from candidate's parent chain looking for
// ancestorID.
func isDescendant(ancestorID string, candidate *models.Resource) bool {
	current := candidate
	for current.ParentID != nil {
		if *current.ParentID == ancestorID {
			return true
		}
		var parent models.Resource
		if err := database.GetDB().Where("id = ?", *current.ParentID).First(&parent).Error; err != nil {
			return false
		}
		current = &parent
	}
	return false
}

// findOrCreateTags resolves tag names to Tag rows, creating missing ones.
func findOrCreateTags(names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag models.Tag
		result := database.GetDB().Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name})
		if result.Error != nil {
			return nil, result.Error
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
