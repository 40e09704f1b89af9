package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/activity"
	"github.com/osse101/MinionBot_Go/internal/concurrency"
	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/gear"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/user"
	"github.com/osse101/MinionBot_Go/internal/worker"
)

const (
	testPlatform   = domain.PlatformTwitch
	testPlatformID = "tw-1"
	testUsername   = "alice"

	itemIDCoins   = 995
	itemIDIronOre = 440
	itemIDSword   = 1277
	itemIDShield  = 1171
)

func slotPtr(slot domain.EquipmentSlot) *domain.EquipmentSlot { return &slot }

func testCatalog() item.Catalog {
	return item.NewStaticCatalog(
		&domain.Item{ID: itemIDCoins, Name: "coins", Stackable: true, Tradeable: true},
		&domain.Item{ID: itemIDIronOre, Name: "iron ore", Stackable: true, Tradeable: true},
		&domain.Item{ID: itemIDSword, Name: "bronze sword", EquipSlot: slotPtr(domain.SlotWeapon)},
		&domain.Item{ID: itemIDShield, Name: "wooden shield", EquipSlot: slotPtr(domain.SlotShield)},
	)
}

// testEnv wires the real services over the in-memory repository, so handler
// tests exercise the full stack below the router.
type testEnv struct {
	repo       *user.FakeRepository
	catalog    item.Catalog
	users      user.Service
	engine     transaction.Service
	gears      gear.Service
	activities activity.Service
	userID     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := user.NewFakeRepository()
	bus := event.NewMemoryBus()
	catalog := testCatalog()

	users := user.NewService(repo, repo, bus)
	engine := transaction.NewService(repo, repo, catalog, bus)
	gears := gear.NewService(catalog, repo, repo, engine, bus, nil)

	pool := worker.NewPool(1, 10)
	pool.Start()
	t.Cleanup(pool.Stop)
	guard := activity.NewGuard(repo, concurrency.NewLockManager())
	activities := activity.NewService(guard, engine, pool, bus)

	registered, err := users.RegisterUser(context.Background(), testPlatform, testPlatformID, testUsername)
	require.NoError(t, err)

	return &testEnv{
		repo:       repo,
		catalog:    catalog,
		users:      users,
		engine:     engine,
		gears:      gears,
		activities: activities,
		userID:     registered.ID,
	}
}

func (e *testEnv) seedBank(bank domain.Bank) {
	e.repo.MutateEconomy(e.userID, func(economy *domain.UserEconomy) {
		economy.Bank = bank
	})
}

func (e *testEnv) bank(t *testing.T) domain.Bank {
	t.Helper()
	economy, err := e.repo.GetUserEconomy(context.Background(), e.userID)
	require.NoError(t, err)
	return economy.Bank
}

func testIdentity() Identity {
	return Identity{Platform: testPlatform, PlatformID: testPlatformID}
}

// doJSON runs one request through the handler and returns the recorder.
func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
