package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

func TestHandleStartActivity_ChargesAndSetsBusy(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDCoins: 100})
	h := HandleStartActivity(env.users, env.activities, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/activity/start", StartActivityRequest{
		Identity:        testIdentity(),
		Kind:            "mining",
		DurationSeconds: 3600,
		Cost:            []ItemStack{{Item: "coins", Quantity: 30}},
		Loot:            []ItemStack{{Item: "iron ore", Quantity: 5}},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[ActivityResponse](t, rec)
	assert.Equal(t, "mining", resp.Kind)

	economy, err := env.repo.GetUserEconomy(context.Background(), env.userID)
	require.NoError(t, err)
	assert.True(t, economy.Busy)
	assert.Equal(t, domain.Bank{itemIDCoins: 70}, economy.Bank)
}

func TestHandleStartActivity_SecondStartRejected(t *testing.T) {
	env := newTestEnv(t)
	h := HandleStartActivity(env.users, env.activities, env.catalog)

	first := doJSON(t, h, http.MethodPost, "/activity/start", StartActivityRequest{
		Identity: testIdentity(), Kind: "mining", DurationSeconds: 3600,
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, h, http.MethodPost, "/activity/start", StartActivityRequest{
		Identity: testIdentity(), Kind: "fishing", DurationSeconds: 3600,
	})

	require.Equal(t, http.StatusConflict, second.Code)
	resp := decodeBody[ErrorResponse](t, second)
	assert.Equal(t, ErrMsgUserBusyError, resp.Error)
}

func TestHandleStartActivity_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := HandleStartActivity(env.users, env.activities, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/activity/start", StartActivityRequest{
		Identity: testIdentity(),
		Kind:     "mining",
		// missing duration
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCancelActivity_RefundsCost(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDCoins: 100})
	start := doJSON(t, HandleStartActivity(env.users, env.activities, env.catalog),
		http.MethodPost, "/activity/start", StartActivityRequest{
			Identity:        testIdentity(),
			Kind:            "mining",
			DurationSeconds: 3600,
			Cost:            []ItemStack{{Item: "coins", Quantity: 30}},
		})
	require.Equal(t, http.StatusCreated, start.Code)

	rec := doJSON(t, HandleCancelActivity(env.users, env.activities, env.catalog),
		http.MethodPost, "/activity/cancel", CancelActivityRequest{Identity: testIdentity()})

	require.Equal(t, http.StatusOK, rec.Code)

	economy, err := env.repo.GetUserEconomy(context.Background(), env.userID)
	require.NoError(t, err)
	assert.False(t, economy.Busy)
	assert.Equal(t, domain.Bank{itemIDCoins: 100}, economy.Bank)
}

func TestHandleCancelActivity_NothingActive(t *testing.T) {
	env := newTestEnv(t)
	h := HandleCancelActivity(env.users, env.activities, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/activity/cancel",
		CancelActivityRequest{Identity: testIdentity()})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgNoActiveActivityError, resp.Error)
}

func TestHandleActivityStatus(t *testing.T) {
	env := newTestEnv(t)
	start := doJSON(t, HandleStartActivity(env.users, env.activities, env.catalog),
		http.MethodPost, "/activity/start", StartActivityRequest{
			Identity: testIdentity(), Kind: "mining", DurationSeconds: 3600,
		})
	require.Equal(t, http.StatusCreated, start.Code)

	rec := doJSON(t, HandleActivityStatus(env.users, env.activities, env.catalog),
		http.MethodGet, "/activity/status?platform=twitch&platform_id=tw-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ActivityResponse](t, rec)
	assert.Equal(t, "mining", resp.Kind)
}
