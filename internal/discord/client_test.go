package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/user/bank", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		assert.Equal(t, "discord", r.URL.Query().Get("platform"))
		assert.Equal(t, "12345", r.URL.Query().Get("platform_id"))

		json.NewEncoder(w).Encode(BankView{
			UserID:   "user-1",
			Items:    []ItemStack{{Item: "coins", Quantity: 250}},
			Revision: 7,
		})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "secret")
	bank, err := client.GetBank("12345")

	require.NoError(t, err)
	assert.Equal(t, "user-1", bank.UserID)
	assert.Equal(t, int64(7), bank.Revision)
	require.Len(t, bank.Items, 1)
	assert.Equal(t, "coins", bank.Items[0].Item)
	assert.Equal(t, 250, bank.Items[0].Quantity)
}

func TestRegisterUser_AcceptsCreatedAndOK(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "discord", body["platform"])
			assert.Equal(t, "12345", body["platform_id"])
			assert.Equal(t, "alice", body["username"])

			w.WriteHeader(status)
			w.Write([]byte(`{"user_id":"user-1","username":"alice","discord_id":"12345"}`))
		}))

		client := NewAPIClient(srv.URL, "secret")
		user, err := client.RegisterUser("12345", "alice")
		srv.Close()

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "12345", user.DiscordID)
	}
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(BankView{UserID: "user-1"})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "")
	bank, err := client.GetBank("12345")

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "user-1", bank.UserID)
}

func TestDoRequest_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"User not found"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "")
	_, err := client.GetBank("12345")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "User not found")
}

func TestStartActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/activity/start", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mining", body["kind"])
		assert.Equal(t, float64(600), body["duration_seconds"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"kind":"mining","started_at":"2026-08-30T12:00:00Z","completes_at":"2026-08-30T12:10:00Z"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "secret")
	view, err := client.StartActivity("12345", "mining", 600, nil, []ItemStack{{Item: "iron ore", Quantity: 5}})

	require.NoError(t, err)
	assert.Equal(t, "mining", view.Kind)
	assert.Equal(t, int64(600), view.CompletesAt.Unix()-view.StartedAt.Unix())
}
