package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// validPlatforms defines the supported platform values
var validPlatforms = map[string]bool{
	domain.PlatformTwitch:  true,
	domain.PlatformYoutube: true,
	domain.PlatformDiscord: true,
}

// Service manages user identity across chat platforms. Registration also
// provisions the user's empty economy row so every later operation can
// assume it exists.
type Service interface {
	RegisterUser(ctx context.Context, platform, platformID, username string) (*domain.User, error)
	GetOrRegister(ctx context.Context, platform, platformID, username string) (*domain.User, error)
	FindByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error)
	FindByUsername(ctx context.Context, platform, username string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo      repository.User
	economy   repository.Economy
	cache     *userCache
	publisher event.Bus
}

// NewService creates a new user service with default cache sizing
func NewService(repo repository.User, economy repository.Economy, publisher event.Bus) Service {
	return NewServiceWithCache(repo, economy, publisher, DefaultCacheSize, DefaultCacheTTL)
}

// NewServiceWithCache creates a user service with explicit cache sizing
func NewServiceWithCache(repo repository.User, economy repository.Economy, publisher event.Bus, cacheSize int, cacheTTL time.Duration) Service {
	return &service{
		repo:      repo,
		economy:   economy,
		cache:     newUserCache(cacheSize, cacheTTL),
		publisher: publisher,
	}
}

// RegisterUser creates or refreshes a user for a platform identity. An
// identity that already exists keeps its user ID and gets its username
// updated.
func (s *service) RegisterUser(ctx context.Context, platform, platformID, username string) (*domain.User, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRegisterUserCalled, "platform", platform, "username", username)

	if err := validateIdentity(platform, platformID, username); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByPlatformID(ctx, platform, platformID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user := existing
	newUser := user == nil
	if newUser {
		user = &domain.User{ID: uuid.NewString()}
		setPlatformID(user, platform, platformID)
	}
	user.Username = username

	if err := s.repo.UpsertUser(ctx, user); err != nil {
		log.Error(LogErrFailedToUpsertUser, "error", err, "username", username)
		return nil, err
	}

	// Provision the empty economy row; idempotent for existing users
	if _, err := s.economy.CreateUserEconomy(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateEconomyFailed, err)
	}

	s.cache.Set(platform, platformID, user)

	if newUser && s.publisher != nil {
		if perr := s.publisher.Publish(ctx, event.NewUserRegisteredEvent(user.ID, platform, username)); perr != nil {
			log.Warn("Failed to publish user registered event", "error", perr)
		}
	}

	log.Info(LogMsgUserRegistered, "user_id", user.ID, "username", username)
	return user, nil
}

// GetOrRegister looks a platform identity up, registering it on first
// sight. This is the entry point for inbound chat commands.
func (s *service) GetOrRegister(ctx context.Context, platform, platformID, username string) (*domain.User, error) {
	if err := validateIdentity(platform, platformID, username); err != nil {
		return nil, err
	}

	if user, ok := s.cache.Get(platform, platformID); ok {
		logger.FromContext(ctx).Debug(LogMsgUserCacheHit, "user_id", user.ID, "platform", platform)
		return user, nil
	}

	user, err := s.repo.GetUserByPlatformID(ctx, platform, platformID)
	if err == nil {
		s.cache.Set(platform, platformID, user)
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	return s.RegisterUser(ctx, platform, platformID, username)
}

// FindByPlatformID finds a user by their platform-specific ID.
func (s *service) FindByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error) {
	if !validPlatforms[platform] {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, ErrMsgUnknownPlatform, platform)
	}
	if user, ok := s.cache.Get(platform, platformID); ok {
		return user, nil
	}
	user, err := s.repo.GetUserByPlatformID(ctx, platform, platformID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(platform, platformID, user)
	return user, nil
}

// FindByUsername finds a user by their username on a platform. Usernames
// change, so this never consults the cache.
func (s *service) FindByUsername(ctx context.Context, platform, username string) (*domain.User, error) {
	if !validPlatforms[platform] {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, ErrMsgUnknownPlatform, platform)
	}
	return s.repo.GetUserByPlatformUsername(ctx, platform, username)
}

// GetByID loads a user by internal ID.
func (s *service) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func validateIdentity(platform, platformID, username string) error {
	if !validPlatforms[platform] {
		return fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownPlatform, platform)
	}
	if platformID == "" || username == "" {
		return fmt.Errorf("%w: platform ID and username must not be empty", domain.ErrInvalidInput)
	}
	return nil
}

func setPlatformID(user *domain.User, platform, platformID string) {
	switch platform {
	case domain.PlatformTwitch:
		user.TwitchID = platformID
	case domain.PlatformYoutube:
		user.YoutubeID = platformID
	case domain.PlatformDiscord:
		user.DiscordID = platformID
	}
}
