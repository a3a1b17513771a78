package handlers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"

	"lms-resource-center/internal/database"
	"lms-resource-center/internal/models"
	"lms-resource-center/internal/websocket"

	"github.com/gin-gonic/gin"
)

type bulkInput struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ownedResources loads all ACTIVE resources from the id set that belong to
// the caller.
func ownedResources(ids []string, userID uint) ([]models.Resource, error) {
	var resources []models.Resource
	err := database.GetDB().
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&resources).Error
	return resources, err
}

// BulkPin pins every resource in the id set in one statement.
func BulkPin(c *gin.Context) {
	var input bulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}

	userID, _ := c.Get("user_id")
	if err := database.GetDB().Model(&models.Resource{}).
		Where("id IN ? AND user_id = ?", input.IDs, userID).
		Update("is_pinned", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pin resources"})
		return
	}

	websocket.GetHub().PublishBulk(userID.(uint), "pin", input.IDs)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Bulk pin completed",
		"affected_ids": input.IDs,
	})
}

// BulkDelete removes the id set in one transaction. Any non-empty container
// in the set rejects the whole request; bulk actions are all-or-nothing.
func BulkDelete(c *gin.Context) {
	var input bulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}

	userID, _ := c.Get("user_id")
	resources, err := ownedResources(input.IDs, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resources"})
		return
	}

	for _, r := range resources {
		if !r.IsContainer() {
			continue
		}
		var childCount int64
		if err := database.GetDB().Model(&models.Resource{}).
			Where("parent_id = ?", r.ID).Count(&childCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check folder contents"})
			return
		}
		if childCount > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot delete folder %q containing resources", r.Title)})
			return
		}
	}

	tx := database.GetDB().Begin()
	if err := tx.Where("id IN ? AND user_id = ?", input.IDs, userID).
		Delete(&models.Resource{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resources"})
		return
	}
	tx.Commit()

	// Blob cleanup after the rows are gone; best effort.
	if provider, err := storageProvider(); err == nil {
		for _, r := range resources {
			if r.StoragePath != "" {
				provider.Delete(r.StoragePath)
			}
		}
	}

	websocket.GetHub().PublishBulk(userID.(uint), "delete", input.IDs)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Bulk delete completed",
		"affected_ids": input.IDs,
	})
}

// BulkDownload streams a zip archive of the file-bearing resources in the
// id set.
func BulkDownload(c *gin.Context) {
	var input bulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}

	userID, _ := c.Get("user_id")
	resources, err := ownedResources(input.IDs, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resources"})
		return
	}

	provider, err := storageProvider()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage unavailable"})
		return
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	added := 0
	for _, r := range resources {
		if r.StoragePath == "" {
			continue
		}
		reader, err := provider.Download(r.StoragePath)
		if err != nil {
			continue
		}
		w, err := zw.Create(r.Title)
		if err != nil {
			reader.Close()
			zw.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
			return
		}
		if _, err := io.Copy(w, reader); err != nil {
			reader.Close()
			zw.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
			return
		}
		reader.Close()
		added++
	}
	if err := zw.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
		return
	}

	if added == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No downloadable files in selection"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=resources.zip")
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
