package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"lms-resource-center/internal/config"
	"lms-resource-center/internal/database"
	"lms-resource-center/internal/models"
	"lms-resource-center/internal/utils"
	"lms-resource-center/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadResource accepts a multipart upload and creates a FILE resource
// backed by the storage provider.
func UploadResource(c *gin.Context) {
	cfg, err := config.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load configuration"})
		return
	}
	userID, _ := c.Get("user_id")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	var parentID *string
	if pid := c.PostForm("parent_id"); pid != "" {
		if _, ok := containerForUser(pid, userID.(uint)); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent folder"})
			return
		}
		parentID = &pid
	}

	provider, err := storageProvider()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to initialize storage: %v", err)})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer f.Close()

	fileType := models.FileTypeForName(file.Filename)
	key := uuid.NewString() + filepath.Ext(file.Filename)
	storedSize := file.Size

	if fileType == models.FileTypeImage {
		// Oversized images are downscaled before storing; every image
		// gets a thumbnail next to the blob.
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		if normalized, err := utils.NormalizeImage(data); err == nil {
			data = normalized
		}
		if err := provider.UploadBytes(data, key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to store file: %v", err)})
			return
		}
		storedSize = int64(len(data))
		if thumb, err := utils.Thumbnail(bytes.NewReader(data)); err == nil {
			provider.UploadBytes(thumb, key+".thumb.jpg")
		}
	} else if err := provider.Upload(f, key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to store file: %v", err)})
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	resource := models.Resource{
		UserID:      userID.(uint),
		Title:       file.Filename,
		Description: c.PostForm("description"),
		Type:        models.TypeFile,
		FileType:    fileType,
		ParentID:    parentID,
		FileSize:    storedSize,
		MimeType:    mimeType,
		StoragePath: key,
		URL:         provider.PublicURL(key),
	}

	tags, err := findOrCreateTags(c.PostFormArray("tags"))
	if err != nil {
		provider.Delete(key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tags"})
		return
	}
	resource.Tags = tags

	if err := database.GetDB().Create(&resource).Error; err != nil {
		provider.Delete(key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save resource"})
		return
	}
	resource.FillTagNames()

	websocket.GetHub().Publish(userID.(uint), &websocket.Event{
		Type:       websocket.UploadComplete,
		UserID:     userID.(uint),
		ResourceID: resource.ID,
		ParentID:   parentID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded successfully",
		"resource": resource,
	})
}
