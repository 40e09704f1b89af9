package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// PresetCommand returns the preset command definition and handler
func PresetCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "preset",
		Description: "Manage saved gear presets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "save",
				Description: "Save a named loadout",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Preset name",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "items",
						Description: "Comma-separated items, e.g. sword, wooden shield, arrows x50",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "equip",
				Description: "Apply a saved preset to a setup",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Preset name",
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
				Name:        "list",
				Description: "List your saved presets",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a saved preset",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Preset name",
						Required:    true,
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

		handleEmbedResponse(s, i, ResponseConfig{Title: "📋 Presets", Color: ColorDefault}, func() (string, error) {
			switch sub.Name {
			case "save":
				items, err := parseItemList(opts["items"].StringValue())
				if err != nil {
					return "", err
				}
				return client.SavePreset(user.ID, opts["name"].StringValue(), items)
			case "equip":
				setup := stringOption(opts, "setup", "melee")
				view, err := client.EquipPreset(user.ID, setup, opts["name"].StringValue())
				if err != nil {
					return "", err
				}
				return formatGearView(view), nil
			case "list":
				presets, err := client.ListPresets(user.ID)
				if err != nil {
					return "", err
				}
				return formatPresets(presets), nil
			case "delete":
				return client.DeletePreset(user.ID, opts["name"].StringValue())
			default:
				return "", fmt.Errorf("unknown preset subcommand: %s", sub.Name)
			}
		})
	}

	return cmd, handler
}

// parseItemList parses a comma-separated item list. Each entry is an item
// name with an optional " xN" quantity suffix.
func parseItemList(raw string) ([]ItemStack, error) {
	parts := strings.Split(raw, ",")
	stacks := make([]ItemStack, 0, len(parts))

	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}

		name := entry
		quantity := 1
		if idx := strings.LastIndex(entry, " x"); idx > 0 {
			if n, err := parsePositiveInt(entry[idx+2:]); err == nil {
				name = strings.TrimSpace(entry[:idx])
				quantity = n
			}
		}

		stacks = append(stacks, ItemStack{Item: name, Quantity: quantity})
	}

	if len(stacks) == 0 {
		return nil, fmt.Errorf("no items given")
	}
	return stacks, nil
}

func parsePositiveInt(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("quantity must be positive")
	}
	return n, nil
}

func formatPresets(presets []PresetView) string {
	if len(presets) == 0 {
		return MsgNoPresets
	}

	var b strings.Builder
	for _, preset := range presets {
		names := make([]string, 0, len(preset.Items))
		for _, stack := range preset.Items {
			if stack.Quantity > 1 {
				names = append(names, fmt.Sprintf("%s x%d", stack.Item, stack.Quantity))
			} else {
				names = append(names, stack.Item)
			}
		}
		fmt.Fprintf(&b, "**%s**: %s\n", preset.Name, strings.Join(names, ", "))
	}
	return b.String()
}
