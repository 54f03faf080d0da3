package main

import (
	"os"

	"notebook-tree-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		color.Yellow("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting notebook schema migration...")
	err = database.Migrate(db, func(step string) {
		color.Yellow("  - %s", step)
	})
	if err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}
	color.Green("Migration completed successfully")
}
