package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ActivityCommand returns the activity command definition and handler
func ActivityCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "activity",
		Description: "Send your minion on activities",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Send your minion on an activity",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "kind",
						Description: "What the minion should do, e.g. mining",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "minutes",
						Description: "How long the activity takes",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "cost",
						Description: "Items consumed up front, e.g. coins x100",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "loot",
						Description: "Items awarded on completion, e.g. iron ore x5",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cancel",
				Description: "Cancel the current activity and refund its cost",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Check what your minion is doing",
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		user := getInteractionUser(i)

		sub := i.ApplicationCommandData().Options[0]
		opts := subOptions(sub)

		handleEmbedResponse(s, i, ResponseConfig{Title: "🗺️ Activity", Color: ColorActivity}, func() (string, error) {
			switch sub.Name {
			case "start":
				var cost, loot []ItemStack
				var err error
				if raw := stringOption(opts, "cost", ""); raw != "" {
					if cost, err = parseItemList(raw); err != nil {
						return "", err
					}
				}
				if raw := stringOption(opts, "loot", ""); raw != "" {
					if loot, err = parseItemList(raw); err != nil {
						return "", err
					}
				}

				minutes := opts["minutes"].IntValue()
				view, err := client.StartActivity(user.ID, opts["kind"].StringValue(), minutes*60, cost, loot)
				if err != nil {
					return "", err
				}
				return formatActivityView(view), nil
			case "cancel":
				return client.CancelActivity(user.ID)
			case "status":
				view, err := client.ActivityStatus(user.ID)
				if err != nil {
					return "", err
				}
				return formatActivityView(view), nil
			default:
				return "", fmt.Errorf("unknown activity subcommand: %s", sub.Name)
			}
		})
	}

	return cmd, handler
}

// formatActivityView renders the activity with a relative completion time.
func formatActivityView(view *ActivityView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Your minion is **%s**.\n", view.Kind)
	fmt.Fprintf(&b, "Done <t:%d:R>.\n", view.CompletesAt.Unix())

	if remaining := time.Until(view.CompletesAt); remaining > 0 {
		fmt.Fprintf(&b, "Time left: %s\n", remaining.Round(time.Second))
	}
	if len(view.Cost) > 0 {
		b.WriteString("\nCost: " + formatStacks(view.Cost, ""))
	}
	if len(view.Loot) > 0 {
		b.WriteString("\nLoot: " + formatStacks(view.Loot, ""))
	}

	return b.String()
}
