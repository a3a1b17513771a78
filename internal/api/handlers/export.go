package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"lms-resource-center/internal/database"
	"lms-resource-center/internal/models"

	"github.com/gin-gonic/gin"
)

// ExportCSV dumps the caller's resource catalog as CSV.
func ExportCSV(c *gin.Context) {
	var resources []models.Resource
	userID, _ := c.Get("user_id")

	if err := database.GetDB().Where("user_id = ?", userID).Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=resources_export.csv")

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write([]string{"ID", "Title", "Type", "FileType", "ParentID", "Size", "Pinned", "Status", "Created At"}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV header"})
		return
	}

	for _, r := range resources {
		parent := ""
		if r.ParentID != nil {
			parent = *r.ParentID
		}
		if err := writer.Write([]string{
			r.ID,
			r.Title,
			string(r.Type),
			r.FileType,
			parent,
			fmt.Sprint(r.FileSize),
			fmt.Sprint(r.IsPinned),
			r.Status,
			r.CreatedAt.String(),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV data"})
			return
		}
	}

	writer.Flush()
}

// ExportJSON dumps the caller's resource catalog as indented JSON.
func ExportJSON(c *gin.Context) {
	var resources []models.Resource
	userID, _ := c.Get("user_id")

	if err := database.GetDB().Preload("Tags").Where("user_id = ?", userID).Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	for i := range resources {
		resources[i].FillTagNames()
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", "attachment;filename=resources_export.json")

	jsonData, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal JSON"})
		return
	}

	c.Data(http.StatusOK, "application/json", jsonData)
}
