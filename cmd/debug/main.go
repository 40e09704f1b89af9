package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/osse101/MinionBot_Go/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default/environment variables")
	}

	// Construct connection string
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	dbPool, err := database.NewPool(connString, 5, 5*time.Minute, 30*time.Minute)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()

	// Dump Users
	fmt.Println("--- Users ---")
	rows, err := dbPool.Query(ctx, "SELECT user_id, username, twitch_id, youtube_id, discord_id FROM users")
	if err != nil {
		log.Printf("Failed to query users: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var id, username string
			var twitchID, youtubeID, discordID *string
			if err := rows.Scan(&id, &username, &twitchID, &youtubeID, &discordID); err != nil {
				log.Printf("Failed to scan user: %v", err)
			}
			fmt.Printf("ID: %s, Username: %s, Twitch: %s, Youtube: %s, Discord: %s\n",
				id, username, deref(twitchID), deref(youtubeID), deref(discordID))
		}
	}

	// Dump Economy Rows
	fmt.Println("\n--- User Economy ---")
	query := `
		SELECT u.username, e.bank, e.gear, e.busy, e.revision
		FROM user_economy e
		JOIN users u ON e.user_id = u.user_id
	`
	rows, err = dbPool.Query(ctx, query)
	if err != nil {
		log.Printf("Failed to query economy rows: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var username string
			var bank, gear []byte
			var busy bool
			var revision int64
			if err := rows.Scan(&username, &bank, &gear, &busy, &revision); err != nil {
				log.Printf("Failed to scan economy row: %v", err)
			}
			fmt.Printf("User: %s, Busy: %v, Revision: %d\n  Bank: %s\n  Gear: %s\n",
				username, busy, revision, bank, gear)
		}
	}

	// Recent Transactions
	fmt.Println("\n--- Recent Transactions ---")
	rows, err = dbPool.Query(ctx, `
		SELECT u.username, t.reason, t.items_added, t.items_removed, t.created_at
		FROM transaction_log t
		JOIN users u ON t.user_id = u.user_id
		ORDER BY t.created_at DESC
		LIMIT 20
	`)
	if err != nil {
		log.Printf("Failed to query transactions: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var username, reason string
			var added, removed []byte
			var createdAt time.Time
			if err := rows.Scan(&username, &reason, &added, &removed, &createdAt); err != nil {
				log.Printf("Failed to scan transaction: %v", err)
			}
			fmt.Printf("[%s] %s (%s) +%s -%s\n",
				createdAt.Format(time.RFC3339), username, reason, added, removed)
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
