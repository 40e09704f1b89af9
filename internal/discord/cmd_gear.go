package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var setupChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Melee", Value: "melee"},
	{Name: "Ranged", Value: "ranged"},
	{Name: "Magic", Value: "magic"},
}

// GearCommand returns the gear command definition and handler
func GearCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "gear",
		Description: "Manage your minion's gear",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "equip",
				Description: "Equip an item from your bank",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "item",
						Description: "Item to equip",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "setup",
						Description: "Gear setup (default melee)",
						Required:    false,
						Choices:     setupChoices,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "quantity",
						Description: "How many, for stackable items",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unequip",
				Description: "Return an equipped item to your bank",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "item",
						Description: "Item to unequip",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "setup",
						Description: "Gear setup (default melee)",
						Required:    false,
						Choices:     setupChoices,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unequip-all",
				Description: "Return everything in a setup to your bank",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "setup",
						Description: "Gear setup (default melee)",
						Required:    false,
						Choices:     setupChoices,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "swap",
				Description: "Swap the contents of two setups",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "first",
						Description: "First setup",
						Required:    true,
						Choices:     setupChoices,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "second",
						Description: "Second setup",
						Required:    true,
						Choices:     setupChoices,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "View a gear setup",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "setup",
						Description: "Gear setup (default melee)",
						Required:    false,
						Choices:     setupChoices,
					},
				},
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
		setup := stringOption(opts, "setup", "melee")

		handleEmbedResponse(s, i, ResponseConfig{Title: "⚔️ Gear", Color: ColorDefault}, func() (string, error) {
			var view *GearView
			var err error

			switch sub.Name {
			case "equip":
				quantity := 0
				if opt, ok := opts["quantity"]; ok {
					quantity = int(opt.IntValue())
				}
				view, err = client.Equip(user.ID, setup, opts["item"].StringValue(), quantity)
			case "unequip":
				view, err = client.Unequip(user.ID, setup, opts["item"].StringValue())
			case "unequip-all":
				view, err = client.UnequipAll(user.ID, setup)
			case "swap":
				view, err = client.SwapSetups(user.ID, opts["first"].StringValue(), opts["second"].StringValue())
			case "view":
				view, err = client.ViewGear(user.ID, setup)
			default:
				return "", fmt.Errorf("unknown gear subcommand: %s", sub.Name)
			}

			if err != nil {
				return "", err
			}
			return formatGearView(view), nil
		})
	}

	return cmd, handler
}

// subOptions maps a subcommand's option names to their values.
func subOptions(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name, fallback string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return fallback
}

// formatGearView renders a gear snapshot, noting any items that were
// displaced back into the bank.
func formatGearView(view *GearView) string {
	var b strings.Builder

	setupName := cases.Title(language.English).String(view.Setup)
	if len(view.Slots) == 0 {
		fmt.Fprintf(&b, MsgGearEmpty, setupName)
	} else {
		fmt.Fprintf(&b, "**%s** setup:\n", setupName)
		for _, slot := range view.Slots {
			if slot.Quantity > 1 {
				fmt.Fprintf(&b, "› %s: **%s** x%d\n", slot.Slot, slot.Item, slot.Quantity)
			} else {
				fmt.Fprintf(&b, "› %s: **%s**\n", slot.Slot, slot.Item)
			}
		}
	}

	if len(view.Returned) > 0 {
		b.WriteString("\nReturned to bank:\n")
		b.WriteString(formatStacks(view.Returned, ""))
	}

	return b.String()
}
