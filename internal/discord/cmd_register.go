package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// RegisterCommand returns the register command definition and handler
func RegisterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "register",
		Description: "Register with the game and get your minion",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		user := getInteractionUser(i)

		handleEmbedResponse(s, i, ResponseConfig{Title: "Registration", Color: ColorSuccess}, func() (string, error) {
			registered, err := client.RegisterUser(user.ID, user.Username)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(MsgRegistered, registered.Username), nil
		})
	}

	return cmd, handler
}
