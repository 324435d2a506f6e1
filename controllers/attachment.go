package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"
	"safety-inspection-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxPhotoBytes = 10 << 20

var photoMimes = []string{"image/png", "image/jpeg", "image/webp"}

func canAccessInspection(c *gin.Context, inspection *models.Inspection) bool {
	if middleware.IsReviewer(c) {
		return true
	}
	return inspection.InspectorID == middleware.CurrentUserID(c)
}

func findInspectionByParam(c *gin.Context) (*models.Inspection, bool) {
	id := c.Param("id")
	var inspection models.Inspection
	if err := config.DB.Where("inspection_id = ? OR client_ref = ?", id, id).
		First(&inspection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
		return nil, false
	}
	return &inspection, true
}

// UploadInspectionPhoto attaches a photo to an inspection. Accepts a
// multipart "file" field or a JSON body with a data URL, both capped at
// 10MB and limited to PNG, JPEG and WebP.
func UploadInspectionPhoto(c *gin.Context) {
	inspection, ok := findInspectionByParam(c)
	if !ok {
		return
	}
	if !canAccessInspection(c, inspection) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var (
		data         []byte
		originalName string
		mimeType     string
	)

	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxPhotoBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		data, err = io.ReadAll(io.LimitReader(src, maxPhotoBytes+1))
		src.Close()
		if err != nil || len(data) > maxPhotoBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
			return
		}
		mimeType = http.DetectContentType(data)
		if !isAllowedPhotoMime(mimeType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only PNG, JPEG and WebP images are accepted"})
			return
		}
		originalName = file.Filename
	} else {
		var req struct {
			DataURL string `json:"dataUrl" binding:"required"`
			Name    string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a file or a dataUrl"})
			return
		}
		decoded, mime, err := utils.ParseImageDataURL(req.DataURL, photoMimes, maxPhotoBytes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
			return
		}
		data = decoded
		mimeType = mime
		originalName = req.Name
		if originalName == "" {
			originalName = fmt.Sprintf("photo_%d%s", time.Now().UnixMilli(), extensionForMime(mime))
		}
	}

	dir := filepath.Join(utils.UploadRoot(), "inspections", inspection.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	storedName := utils.GenerateUniqueFilename(dir, originalName)
	storedPath := filepath.Join(dir, storedName)
	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	attachment := models.Attachment{
		InspectionID: inspection.ID,
		UploadedBy:   middleware.CurrentUserID(c),
		Kind:         models.AttachmentKindPhoto,
		OriginalName: utils.SanitizeFilename(originalName),
		StoredPath:   storedPath,
		MimeType:     mimeType,
		FileSize:     int64(len(data)),
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := config.DB.Create(&attachment).Error; err != nil {
		// Keep storage and database in step.
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file info"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Photo uploaded",
		"file":    attachment,
	})
}

func isAllowedPhotoMime(mime string) bool {
	for _, allowed := range photoMimes {
		if mime == allowed {
			return true
		}
	}
	return false
}

func extensionForMime(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// ListInspectionFiles returns photos and generated reports for one
// inspection.
func ListInspectionFiles(c *gin.Context) {
	inspection, ok := findInspectionByParam(c)
	if !ok {
		return
	}
	if !canAccessInspection(c, inspection) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var files []models.Attachment
	if err := config.DB.
		Where("inspection_id = ? AND delete_at IS NULL", inspection.ID).
		Order("create_at ASC").
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	type fileEntry struct {
		models.Attachment
		DisplaySize string `json:"display_size"`
	}
	entries := make([]fileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, fileEntry{
			Attachment:  f,
			DisplaySize: utils.FormatFileSize(f.FileSize),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   entries,
		"count":   len(entries),
	})
}

func findAttachment(c *gin.Context) (*models.Attachment, bool) {
	fileID, err := strconv.Atoi(c.Param("id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return nil, false
	}
	var attachment models.Attachment
	if err := config.DB.
		Where("attachment_id = ? AND delete_at IS NULL", fileID).
		First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file"})
		}
		return nil, false
	}
	return &attachment, true
}

// DownloadFile streams a stored attachment with a download disposition.
func DownloadFile(c *gin.Context) {
	attachment, ok := findAttachment(c)
	if !ok {
		return
	}

	var inspection models.Inspection
	if err := config.DB.Where("inspection_id = ?", attachment.InspectionID).
		First(&inspection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if !canAccessInspection(c, &inspection) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if _, err := os.Stat(attachment.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", attachment.OriginalName))
	c.Header("Content-Type", attachment.MimeType)
	c.File(attachment.StoredPath)
}

// DeleteFile soft deletes an attachment (uploader or admin).
func DeleteFile(c *gin.Context) {
	attachment, ok := findAttachment(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if attachment.UploadedBy != userID && middleware.CurrentRoleID(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Attachment{}).
		Where("attachment_id = ?", attachment.AttachmentID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
}
