// Command token prints a bearer token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"notebook-tree-be/internal/config"
	"notebook-tree-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	rawUser := flag.String("user", "", "user id (a new one is generated when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		color.Red("Error: JWT_SECRET is not set")
		os.Exit(1)
	}

	userId := uuid.New()
	if *rawUser != "" {
		parsed, err := uuid.Parse(*rawUser)
		if err != nil {
			color.Red("Error: invalid user id: %v", err)
			os.Exit(1)
		}
		userId = parsed
	}

	token, err := serverutils.IssueToken(cfg.Auth.JwtSecret, userId, *ttl)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	color.Cyan("user_id: %s", userId)
	fmt.Println(token)
}
