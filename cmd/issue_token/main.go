// Command issue_token mints an admin bearer token for the back-office API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "operator ID recorded as the actor in donor logs")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, err := services.NewAuthService(secret).IssueToken(*subject, services.RoleAdmin, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
