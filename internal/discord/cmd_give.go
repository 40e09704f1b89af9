package discord

import (
	"github.com/bwmarrin/discordgo"
)

// GiveCommand returns the give command definition and handler
func GiveCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "give",
		Description: "Give items from your bank to another player",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "username",
				Description: "Who to give the items to",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "item",
				Description: "Item to give",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "quantity",
				Description: "How many (default 1)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		user := getInteractionUser(i)
		opts := getOptions(i)

		toUsername := opts["username"].StringValue()
		item := opts["item"].StringValue()
		quantity := 1
		if opt, ok := opts["quantity"]; ok {
			quantity = int(opt.IntValue())
		}

		handleEmbedResponse(s, i, ResponseConfig{Title: "🎁 Give", Color: ColorSuccess}, func() (string, error) {
			return client.GiveItem(user.ID, toUsername, item, quantity)
		})
	}

	return cmd, handler
}
