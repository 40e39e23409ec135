// Operational helper: reset a seller's password directly against the remote
// store when they lock themselves out of the dashboard.
package main

import (
	"flag"
	"log"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "seller email to reset")
	password := flag.String("password", "", "new password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: reset-password -email seller@example.com -password newpass")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	if !database.Configured() {
		log.Fatal("No remote store configured; local mode has no accounts")
	}

	db := database.ConnectDB()

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
