// Command seed-admin creates the first admin account so a fresh
// deployment can log in.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		email    string
		password string
		fname    string
		lname    string
	)

	flag.StringVar(&email, "email", "", "admin email address")
	flag.StringVar(&password, "password", "", "admin password")
	flag.StringVar(&fname, "fname", "Admin", "first name")
	flag.StringVar(&lname, "lname", "", "last name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if email == "" || password == "" {
		log.Fatal("email and password are required")
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	config.InitDB()

	normalized := strings.ToLower(strings.TrimSpace(email))

	var count int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", normalized).
		Count(&count)
	if count > 0 {
		log.Fatalf("user %s already exists", normalized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	user := models.User{
		UserFname: fname,
		UserLname: lname,
		Email:     normalized,
		Password:  string(hashed),
		RoleID:    models.RoleAdmin,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Admin user %s created (user_id=%d)", normalized, user.UserID)
}
