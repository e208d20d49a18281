package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/present"
)

const (
	colorOpen     = 0x2ecc71
	colorFull     = 0xe74c3c
	colorArchived = 0x607d8b
)

func embedColor(c present.Capacity) int {
	switch c {
	case present.Full:
		return colorFull
	case present.Archived:
		return colorArchived
	}
	return colorOpen
}

// queueEmbed arma el embed de una cola (vivo o archivado).
func queueEmbed(s present.Summary, roles RoleBadges) *discordgo.MessageEmbed {
	title := s.Title
	if b := roles.Badge(s.Role); b != "" {
		title = b + " " + title
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "Host", Value: s.Host, Inline: true},
		{Name: "Size", Value: s.Size, Inline: true},
	}
	if s.Note != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Note", Value: s.Note})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Members", Value: truncate(s.RosterText(), 1024)})
	return &discordgo.MessageEmbed{
		Title:  truncate(title, 256),
		Color:  embedColor(s.State),
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: s.Footer},
	}
}

// Botones de la cola; el id de la cola viaja en el custom_id.
func queueComponents(s present.Summary) []discordgo.MessageComponent {
	id := strconv.FormatInt(s.QueueID, 10)
	return []discordgo.MessageComponent{discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SuccessButton,
				Label:    "Join",
				CustomID: queueJoinPrefix + id,
				Disabled: s.IsFull(),
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    "Leave",
				CustomID: queueLeavePrefix + id,
			},
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				Label:    "Kick",
				CustomID: queueKickPrefix + id,
				Emoji:    &discordgo.ComponentEmoji{Name: "👢"},
			},
		},
	}}
}

// truncate corta en runas para respetar los límites de Discord.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
