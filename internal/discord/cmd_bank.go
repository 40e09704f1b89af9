package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// BankCommand returns the bank command definition and handler
func BankCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "bank",
		Description: "View your bank",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		user := getInteractionUser(i)

		handleEmbedResponse(s, i, ResponseConfig{Title: "🏦 Bank", Color: ColorGold}, func() (string, error) {
			bank, err := client.GetBank(user.ID)
			if err != nil {
				return "", err
			}
			return formatStacks(bank.Items, MsgBankEmpty), nil
		})
	}

	return cmd, handler
}

// formatStacks renders item stacks as one line per item, or empty if there
// are none.
func formatStacks(items []ItemStack, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, 0, len(items))
	for _, stack := range items {
		lines = append(lines, fmt.Sprintf("**%s** x%d", stack.Item, stack.Quantity))
	}
	return strings.Join(lines, "\n")
}
