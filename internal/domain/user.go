package domain

// Platform name constants
const (
	PlatformTwitch  = "twitch"
	PlatformYoutube = "youtube"
	PlatformDiscord = "discord"
)

// User represents a registered user
type User struct {
	ID        string `json:"user_id"`
	Username  string `json:"username"`
	TwitchID  string `json:"twitch_id,omitempty"`
	YoutubeID string `json:"youtube_id,omitempty"`
	DiscordID string `json:"discord_id,omitempty"`
}

// UserEconomy is the full persisted economy state for one user: the bank,
// one gear loadout per setup kind, the busy flag, skill levels, and the
// revision counter used for optimistic-concurrency checks at the
// persistence boundary.
type UserEconomy struct {
	UserID   string
	Bank     Bank
	Gear     map[GearSetupType]Gear
	Skills   map[Skill]int
	Busy     bool
	Revision int64
}

// NewUserEconomy returns the default-empty state created on a user's first
// interaction.
func NewUserEconomy(userID string) *UserEconomy {
	gear := make(map[GearSetupType]Gear, len(AllGearSetupTypes()))
	for _, setup := range AllGearSetupTypes() {
		gear[setup] = NewGear()
	}
	return &UserEconomy{
		UserID: userID,
		Bank:   NewBank(),
		Gear:   gear,
		Skills: make(map[Skill]int),
	}
}

// GearFor returns the loadout for a setup kind, defaulting to empty.
func (e *UserEconomy) GearFor(setup GearSetupType) Gear {
	if g, ok := e.Gear[setup]; ok && g != nil {
		return g
	}
	return NewGear()
}
