package domain

import "time"

// GearPreset is a named full loadout a user has saved for one-command
// equipping. The layout is stored as a Gear record; equipping a preset
// checks the required items against the user's bank plus currently worn
// gear at equip time, not at save time.
type GearPreset struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Gear      Gear      `json:"gear"`
	CreatedAt time.Time `json:"created_at"`
}
