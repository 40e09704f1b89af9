package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler is a function that handles a Discord slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient)

// CommandRegistry maps command names to their handlers
type CommandRegistry struct {
	commands map[string]CommandHandler
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]CommandHandler),
	}
}

// Register adds a command handler to the registry
func (r *CommandRegistry) Register(name string, handler CommandHandler) {
	r.commands[name] = handler
}

// Handle dispatches an interaction to the registered handler
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := r.commands[name]
	if !ok {
		slog.Warn("Unknown command received", "command", name)
		return
	}

	handler(s, i, client)
}

// RegisterCommands registers slash commands with Discord, skipping the bulk
// overwrite when the registered set already matches. Re-registering identical
// commands on every restart burns through Discord's rate limits.
func (b *Bot) RegisterCommands(commands []*discordgo.ApplicationCommand, forceUpdate bool) error {
	if !forceUpdate {
		existing, err := b.Session.ApplicationCommands(b.AppID, "")
		if err != nil {
			slog.Warn("Failed to fetch existing commands, forcing update", "error", err)
		} else if commandsEqual(existing, commands) {
			slog.Info("Slash commands unchanged, skipping registration", "count", len(commands))
			return nil
		}
	}

	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("Registered slash commands", "count", len(registered))
	return nil
}

// commandsEqual reports whether the registered command set matches the
// desired set on the fields we control.
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	byName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name] = cmd
	}

	for _, want := range desired {
		have, ok := byName[want.Name]
		if !ok || !commandEqual(have, want) {
			return false
		}
	}
	return true
}

func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for idx := range a.Options {
		if !optionEqual(a.Options[idx], b.Options[idx]) {
			return false
		}
	}
	return true
}

func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Name != b.Name || a.Description != b.Description ||
		a.Type != b.Type || a.Required != b.Required {
		return false
	}
	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for idx := range a.Choices {
		if a.Choices[idx].Name != b.Choices[idx].Name {
			return false
		}
	}
	return true
}

// deferResponse acknowledges the interaction so we have time to call the API.
// Discord requires a response within 3 seconds.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Error("Failed to defer interaction response", "error", err)
		return false
	}
	return true
}

// getInteractionUser returns the user who triggered the interaction,
// whether it came from a guild or a DM.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// getOptions maps option names to their values for easy lookup.
func getOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// ResponseConfig controls how handleEmbedResponse renders the result.
type ResponseConfig struct {
	Title string
	Color int
}

// handleEmbedResponse runs action and edits the deferred response with the
// result, rendering API errors as friendly messages.
func handleEmbedResponse(s *discordgo.Session, i *discordgo.InteractionCreate, cfg ResponseConfig, action func() (string, error)) {
	content, err := action()
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	embed := createEmbed(cfg.Title, content, cfg.Color)
	sendEmbed(s, i, embed)
}

func createEmbed(title, description string, color int) *discordgo.MessageEmbed {
	if color == 0 {
		color = ColorDefault
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: EmbedFooter,
		},
	}
}

func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}

// respondFriendlyError edits the deferred response with a user-facing
// version of the error.
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := formatFriendlyError(err)
	_, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if editErr != nil {
		slog.Error("Failed to send error response", "error", editErr)
	}
}

// formatFriendlyError translates API error strings into messages suitable
// for a Discord channel.
func formatFriendlyError(err error) string {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "User not found"):
		return MsgUserNotFound
	case strings.Contains(msg, "Item not found"):
		return MsgItemNotFound
	case strings.Contains(msg, "Not enough items"):
		return MsgNotEnoughItems
	case strings.Contains(msg, "cannot be traded"):
		return MsgNotTradeable
	case strings.Contains(msg, "minion is busy"):
		return MsgMinionBusy
	case strings.Contains(msg, "No activity in progress"):
		return MsgNoActivity
	case strings.Contains(msg, "cannot be equipped"):
		return MsgNotEquipable
	case strings.Contains(msg, "Nothing equipped there"):
		return MsgSlotEmpty
	case strings.Contains(msg, "Invalid gear setup"):
		return MsgInvalidSetup
	case strings.Contains(msg, "Preset not found"):
		return MsgPresetNotFound
	case strings.Contains(msg, "changed your bank"):
		return MsgBankConflict
	case strings.Contains(msg, "request failed after"):
		return MsgAPIUnavailable
	default:
		slog.Warn("Unmapped API error shown to user", "error", msg)
		return MsgGenericError
	}
}
