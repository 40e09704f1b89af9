package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var _ repository.User = (*UserRepository)(nil)

// UpsertUser inserts a new user or refreshes an existing one's username and
// platform IDs. Empty platform IDs never overwrite stored ones.
func (r *UserRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		query := `
			INSERT INTO users (username, twitch_id, youtube_id, discord_id, created_at, updated_at)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NOW(), NOW())
			RETURNING user_id
		`
		err := r.db.QueryRow(ctx, query, user.Username, user.TwitchID, user.YoutubeID, user.DiscordID).Scan(&user.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertUser, err)
		}
		return nil
	}

	query := `
		UPDATE users
		SET username = $2,
			twitch_id = COALESCE(NULLIF($3, ''), twitch_id),
			youtube_id = COALESCE(NULLIF($4, ''), youtube_id),
			discord_id = COALESCE(NULLIF($5, ''), discord_id),
			updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Username, user.TwitchID, user.YoutubeID, user.DiscordID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUser, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, COALESCE(twitch_id, ''), COALESCE(youtube_id, ''), COALESCE(discord_id, '')
		FROM users
		WHERE user_id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetUserByPlatformID finds a user by their platform-specific ID
func (r *UserRepository) GetUserByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error) {
	column, err := platformColumn(platform)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT user_id, username, COALESCE(twitch_id, ''), COALESCE(youtube_id, ''), COALESCE(discord_id, '')
		FROM users
		WHERE %s = $1
	`, column)
	return r.scanUser(r.db.QueryRow(ctx, query, platformID))
}

// GetUserByPlatformUsername finds a user by username, restricted to users
// registered on the given platform.
func (r *UserRepository) GetUserByPlatformUsername(ctx context.Context, platform, username string) (*domain.User, error) {
	column, err := platformColumn(platform)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT user_id, username, COALESCE(twitch_id, ''), COALESCE(youtube_id, ''), COALESCE(discord_id, '')
		FROM users
		WHERE LOWER(username) = LOWER($1) AND %s IS NOT NULL
	`, column)
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

// DeleteUser removes a user row
func (r *UserRepository) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteUser, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.TwitchID, &user.YoutubeID, &user.DiscordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return &user, nil
}

// platformColumn maps a platform name to its column. Column names come from
// this closed set only, never from caller input.
func platformColumn(platform string) (string, error) {
	switch platform {
	case domain.PlatformTwitch:
		return "twitch_id", nil
	case domain.PlatformYoutube:
		return "youtube_id", nil
	case domain.PlatformDiscord:
		return "discord_id", nil
	}
	return "", fmt.Errorf("%s %q: %w", ErrMsgUnknownPlatform, platform, domain.ErrInvalidInput)
}
