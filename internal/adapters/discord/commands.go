package discord

import "github.com/bwmarrin/discordgo"

var adminPerm int64 = discordgo.PermissionAdministrator

var Commands = []*discordgo.ApplicationCommand{
	{Name: "raid", Description: "Create a raid group"},
	{Name: "boss", Description: "Create a boss group"},
	{Name: "event", Description: "Create an event group"},
	{
		Name:        "link",
		Description: "Link your Discord account to your RSN",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rsn",
			Description: "Your RuneScape name",
			Required:    true,
			MaxLength:   12,
		}},
	},
	{Name: "whoami", Description: "Show your linked RSN"},
	{
		Name:        "stats",
		Description: "Look up hiscores and combat level",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rsn",
			Description: "RSN to look up (defaults to yours)",
			MaxLength:   12,
		}},
	},
	{Name: "queues", Description: "List active groups"},
	{
		Name:                     "lfgsync",
		Description:              "Force a queue resync (admins)",
		DefaultMemberPermissions: &adminPerm,
	},
}
