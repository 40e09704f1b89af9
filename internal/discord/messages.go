package discord

// Embed styling
const (
	EmbedFooter = "MinionBot"

	ColorDefault  = 0x5865F2 // blurple
	ColorSuccess  = 0x57F287 // green
	ColorGold     = 0xFEE75C // yellow
	ColorActivity = 0xEB459E // pink
)

// User-facing error messages
const (
	MsgUserNotFound   = "❌ You're not registered yet! Use `/register` first."
	MsgItemNotFound   = "❌ I don't know that item."
	MsgNotEnoughItems = "❌ You don't have enough of that item."
	MsgNotTradeable   = "❌ That item can't be traded."
	MsgMinionBusy     = "⏳ Your minion is busy. Wait for it to finish or `/activity cancel`."
	MsgNoActivity     = "💤 Your minion isn't doing anything right now."
	MsgNotEquipable   = "❌ That item can't be equipped."
	MsgSlotEmpty      = "❌ Nothing is equipped there."
	MsgInvalidSetup   = "❌ That's not a valid gear setup. Try melee, ranged, or magic."
	MsgPresetNotFound = "❌ No preset with that name. Use `/preset list` to see yours."
	MsgBankConflict   = "⚠️ Someone else changed your bank at the same time. Try again."
	MsgAPIUnavailable = "🔌 The game server isn't responding. Try again in a moment."
	MsgGenericError   = "❌ Something went wrong. Try again later."
)

// Success message templates
const (
	MsgRegistered        = "Welcome, **%s**! Your minion is ready."
	MsgAlreadyRegistered = "You're already registered as **%s**."
	MsgBankEmpty         = "Your bank is empty."
	MsgGearEmpty         = "Nothing equipped in your **%s** setup."
	MsgNoPresets         = "You haven't saved any presets yet."
)
