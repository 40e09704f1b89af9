package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []ItemStack
		wantErr  bool
	}{
		{
			name:     "Single Item",
			input:    "sword",
			expected: []ItemStack{{Item: "sword", Quantity: 1}},
		},
		{
			name:  "Multiple Items With Quantities",
			input: "sword, wooden shield, arrows x50",
			expected: []ItemStack{
				{Item: "sword", Quantity: 1},
				{Item: "wooden shield", Quantity: 1},
				{Item: "arrows", Quantity: 50},
			},
		},
		{
			name:     "Quantity Suffix Needs Space",
			input:    "boxer",
			expected: []ItemStack{{Item: "boxer", Quantity: 1}},
		},
		{
			name:     "Invalid Quantity Kept As Name",
			input:    "arrows xfifty",
			expected: []ItemStack{{Item: "arrows xfifty", Quantity: 1}},
		},
		{
			name:    "Empty Input",
			input:   " , ,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stacks, err := parseItemList(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stacks)
		})
	}
}

func TestCommandsEqual(t *testing.T) {
	base := []*discordgo.ApplicationCommand{
		{
			Name:        "bank",
			Description: "View your bank",
		},
		{
			Name:        "give",
			Description: "Give items from your bank to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Who to give the items to",
					Required:    true,
				},
			},
		},
	}

	t.Run("Identical Sets Match", func(t *testing.T) {
		assert.True(t, commandsEqual(base, base))
	})

	t.Run("Order Does Not Matter", func(t *testing.T) {
		reversed := []*discordgo.ApplicationCommand{base[1], base[0]}
		assert.True(t, commandsEqual(base, reversed))
	})

	t.Run("Changed Description Differs", func(t *testing.T) {
		changed := []*discordgo.ApplicationCommand{
			{Name: "bank", Description: "Something else"},
			base[1],
		}
		assert.False(t, commandsEqual(base, changed))
	})

	t.Run("Changed Option Differs", func(t *testing.T) {
		changed := []*discordgo.ApplicationCommand{
			base[0],
			{
				Name:        "give",
				Description: "Give items from your bank to another player",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "username",
						Description: "Who to give the items to",
						Required:    false,
					},
				},
			},
		}
		assert.False(t, commandsEqual(base, changed))
	})

	t.Run("Missing Command Differs", func(t *testing.T) {
		assert.False(t, commandsEqual(base, base[:1]))
	})
}

func TestRegistryHandle_IgnoresUnknownCommands(t *testing.T) {
	registry := NewCommandRegistry()

	called := false
	registry.Register("ping", func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		called = true
	})

	interaction := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{Name: "unknown"},
		},
	}
	registry.Handle(nil, interaction, nil)
	assert.False(t, called)

	interaction.Data = discordgo.ApplicationCommandInteractionData{Name: "ping"}
	registry.Handle(nil, interaction, nil)
	assert.True(t, called)
}
