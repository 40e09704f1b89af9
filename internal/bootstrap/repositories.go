package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MinionBot_Go/internal/database/postgres"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	User           repository.User
	Economy        repository.Economy
	GearPreset     repository.GearPreset
	EventLog       repository.EventLog
	TransactionLog repository.TransactionLog
}

// InitializeRepositories creates all repository implementations over the
// shared connection pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:           postgres.NewUserRepository(dbPool),
		Economy:        postgres.NewEconomyRepository(dbPool),
		GearPreset:     postgres.NewGearPresetRepository(dbPool),
		EventLog:       postgres.NewEventLogRepository(dbPool),
		TransactionLog: postgres.NewTransactionLogRepository(dbPool),
	}
}
