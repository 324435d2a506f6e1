package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/models"
	"safety-inspection-api/utils"

	"github.com/gin-gonic/gin"
)

// GetUsers lists active users with their roles. Admin only.
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Role").
		Where("delete_at IS NULL").
		Order("user_id ASC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

type createUserRequest struct {
	UserFname   string `json:"user_fname" binding:"required"`
	UserLname   string `json:"user_lname"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	RoleID      int    `json:"role_id" binding:"required"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	PIN         string `json:"pin"`
}

// CreateUser registers a new account. Admin only. The optional PIN is
// stored as a bcrypt hash alongside the password.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user payload"})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.RoleID != models.RoleInspector && req.RoleID != models.RoleSupervisor && req.RoleID != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", email).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname: req.UserFname,
		UserLname: req.UserLname,
		Email:     email,
		Password:  hashed,
		RoleID:    req.RoleID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if req.Designation != "" {
		user.Designation = &req.Designation
	}
	if req.Company != "" {
		user.Company = &req.Company
	}
	if req.PIN != "" {
		if ok, msg := utils.ValidatePIN(req.PIN); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		pinHash, err := HashPassword(req.PIN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		user.PIN = &pinHash
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	config.DB.Preload("Role").First(&user, user.UserID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created",
		"user":    user,
	})
}

// UpdateUserRole changes one user's role. Admin only.
func UpdateUserRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		RoleID int `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_id is required"})
		return
	}
	if req.RoleID != models.RoleInspector && req.RoleID != models.RoleSupervisor && req.RoleID != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"role_id":   req.RoleID,
			"update_at": time.Now(),
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated"})
}
