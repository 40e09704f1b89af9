package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// APIClient handles communication with the backend API
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIKey: apiKey,
	}
}

// ItemStack mirrors the API's item name plus quantity pair.
type ItemStack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// BankView is the API's bank snapshot for a user.
type BankView struct {
	UserID   string      `json:"user_id"`
	Items    []ItemStack `json:"items"`
	Revision int64       `json:"revision"`
}

// GearSlotView is one occupied slot in a gear setup.
type GearSlotView struct {
	Slot     string `json:"slot"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// GearView is the API's gear snapshot after a gear operation.
type GearView struct {
	Setup    string         `json:"setup"`
	Slots    []GearSlotView `json:"slots"`
	Returned []ItemStack    `json:"returned,omitempty"`
	Bank     []ItemStack    `json:"bank,omitempty"`
	Revision int64          `json:"revision"`
}

// PresetView is one stored gear preset.
type PresetView struct {
	Name  string      `json:"name"`
	Items []ItemStack `json:"items"`
}

// ActivityView is the API's view of a running activity.
type ActivityView struct {
	Kind        string      `json:"kind"`
	Cost        []ItemStack `json:"cost,omitempty"`
	Loot        []ItemStack `json:"loot,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletesAt time.Time   `json:"completes_at"`
}

// doRequest performs an HTTP request with retry logic for transient failures.
// Retries up to 3 times with exponential backoff on 5xx responses.
func (c *APIClient) doRequest(method, path string, body interface{}) (*http.Response, error) {
	const maxRetries = 3
	const retryDelay = 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			delay := retryDelay * time.Duration(1<<(attempt-1))
			delay += time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			slog.Debug("Retrying API request", "attempt", attempt+1, "path", path, "delay", delay)
			time.Sleep(delay)
		}

		var reqBody io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Only retry server errors. Client errors carry a meaningful
		// message the caller should see.
		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		lastErr = fmt.Errorf("server error: %s", resp.Status)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

// decodeError extracts the API's error message from a non-success response.
func decodeError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("API error: %s", resp.Status)
	}
	return fmt.Errorf("API error: %s", errResp.Error)
}

// decodeInto decodes a JSON response into v, treating any status outside
// okStatuses as an error.
func decodeInto(resp *http.Response, v interface{}, okStatuses ...int) error {
	defer resp.Body.Close()

	ok := false
	for _, s := range okStatuses {
		if resp.StatusCode == s {
			ok = true
			break
		}
	}
	if !ok {
		return decodeError(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// identityQuery builds the platform query string for GET endpoints.
func identityQuery(discordID string) string {
	q := url.Values{}
	q.Set("platform", domain.PlatformDiscord)
	q.Set("platform_id", discordID)
	return q.Encode()
}

// identityBody builds the platform fields shared by POST request bodies.
func identityBody(discordID string) map[string]interface{} {
	return map[string]interface{}{
		"platform":    domain.PlatformDiscord,
		"platform_id": discordID,
	}
}

// RegisterUser registers a Discord user with the backend. Registration is
// idempotent, so calling this for an existing user returns their record.
func (c *APIClient) RegisterUser(discordID, username string) (*domain.User, error) {
	body := identityBody(discordID)
	body["username"] = username

	resp, err := c.doRequest(http.MethodPost, "/api/v1/user/register", body)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := decodeInto(resp, &user, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBank fetches the user's bank contents.
func (c *APIClient) GetBank(discordID string) (*BankView, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/v1/user/bank?"+identityQuery(discordID), nil)
	if err != nil {
		return nil, err
	}

	var bank BankView
	if err := decodeInto(resp, &bank, http.StatusOK); err != nil {
		return nil, err
	}
	return &bank, nil
}

// GiveItem transfers items from the caller to another registered user.
// Returns the API's confirmation message.
func (c *APIClient) GiveItem(discordID, toUsername, item string, quantity int) (string, error) {
	body := identityBody(discordID)
	body["to_username"] = toUsername
	body["items"] = []ItemStack{{Item: item, Quantity: quantity}}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/user/item/give", body)
	if err != nil {
		return "", err
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := decodeInto(resp, &result, http.StatusOK); err != nil {
		return "", err
	}
	return result.Message, nil
}

// Equip equips an item into the named setup.
func (c *APIClient) Equip(discordID, setup, item string, quantity int) (*GearView, error) {
	body := identityBody(discordID)
	body["setup"] = setup
	body["item"] = item
	if quantity > 0 {
		body["quantity"] = quantity
	}
	return c.gearRequest("/api/v1/gear/equip", body)
}

// Unequip removes an item from the named setup back into the bank.
func (c *APIClient) Unequip(discordID, setup, item string) (*GearView, error) {
	body := identityBody(discordID)
	body["setup"] = setup
	body["item"] = item
	return c.gearRequest("/api/v1/gear/unequip", body)
}

// UnequipAll empties the named setup back into the bank.
func (c *APIClient) UnequipAll(discordID, setup string) (*GearView, error) {
	body := identityBody(discordID)
	body["setup"] = setup
	return c.gearRequest("/api/v1/gear/unequip-all", body)
}

// SwapSetups exchanges the contents of two setups.
func (c *APIClient) SwapSetups(discordID, first, second string) (*GearView, error) {
	body := identityBody(discordID)
	body["first"] = first
	body["second"] = second
	return c.gearRequest("/api/v1/gear/swap", body)
}

// ViewGear fetches the current contents of the named setup.
func (c *APIClient) ViewGear(discordID, setup string) (*GearView, error) {
	q := url.Values{}
	q.Set("platform", domain.PlatformDiscord)
	q.Set("platform_id", discordID)
	q.Set("setup", setup)

	resp, err := c.doRequest(http.MethodGet, "/api/v1/gear/view?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var view GearView
	if err := decodeInto(resp, &view, http.StatusOK); err != nil {
		return nil, err
	}
	return &view, nil
}

// SavePreset stores a named loadout built from the listed items.
func (c *APIClient) SavePreset(discordID, name string, items []ItemStack) (string, error) {
	body := identityBody(discordID)
	body["name"] = name
	body["items"] = items

	resp, err := c.doRequest(http.MethodPost, "/api/v1/gear/preset/save", body)
	if err != nil {
		return "", err
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := decodeInto(resp, &result, http.StatusCreated); err != nil {
		return "", err
	}
	return result.Message, nil
}

// EquipPreset applies a stored preset onto the named setup.
func (c *APIClient) EquipPreset(discordID, setup, name string) (*GearView, error) {
	body := identityBody(discordID)
	body["setup"] = setup
	body["name"] = name
	return c.gearRequest("/api/v1/gear/preset", body)
}

// ListPresets fetches the caller's stored presets.
func (c *APIClient) ListPresets(discordID string) ([]PresetView, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/v1/gear/presets?"+identityQuery(discordID), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []PresetView `json:"data"`
	}
	if err := decodeInto(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// DeletePreset removes a stored preset by name.
func (c *APIClient) DeletePreset(discordID, name string) (string, error) {
	body := identityBody(discordID)
	body["name"] = name

	resp, err := c.doRequest(http.MethodPost, "/api/v1/gear/preset/delete", body)
	if err != nil {
		return "", err
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := decodeInto(resp, &result, http.StatusOK); err != nil {
		return "", err
	}
	return result.Message, nil
}

// StartActivity sends the minion on an activity.
func (c *APIClient) StartActivity(discordID, kind string, durationSeconds int64, cost, loot []ItemStack) (*ActivityView, error) {
	body := identityBody(discordID)
	body["kind"] = kind
	body["duration_seconds"] = durationSeconds
	if len(cost) > 0 {
		body["cost"] = cost
	}
	if len(loot) > 0 {
		body["loot"] = loot
	}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/activity/start", body)
	if err != nil {
		return nil, err
	}

	var view ActivityView
	if err := decodeInto(resp, &view, http.StatusCreated); err != nil {
		return nil, err
	}
	return &view, nil
}

// CancelActivity cancels the minion's current activity. The cost is
// refunded and no loot is awarded. Returns the API's confirmation message.
func (c *APIClient) CancelActivity(discordID string) (string, error) {
	resp, err := c.doRequest(http.MethodPost, "/api/v1/activity/cancel", identityBody(discordID))
	if err != nil {
		return "", err
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := decodeInto(resp, &result, http.StatusOK); err != nil {
		return "", err
	}
	return result.Message, nil
}

// ActivityStatus fetches the minion's current activity.
func (c *APIClient) ActivityStatus(discordID string) (*ActivityView, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/v1/activity/status?"+identityQuery(discordID), nil)
	if err != nil {
		return nil, err
	}

	var view ActivityView
	if err := decodeInto(resp, &view, http.StatusOK); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *APIClient) gearRequest(path string, body map[string]interface{}) (*GearView, error) {
	resp, err := c.doRequest(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var view GearView
	if err := decodeInto(resp, &view, http.StatusOK); err != nil {
		return nil, err
	}
	return &view, nil
}
