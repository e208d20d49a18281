package discord

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/config"
)

var kindPlaceholder = map[string]string{
	"raid":  "1. Choose Raid...",
	"boss":  "1. Choose Boss...",
	"event": "1. Choose Event...",
}

// wizardComponents: select de actividad, select de rol y botón de detalles.
func wizardComponents(cat config.Catalog, w wizardState) []discordgo.MessageComponent {
	acts := make([]discordgo.SelectMenuOption, 0, len(cat.Kind(w.Kind)))
	for _, o := range cat.Kind(w.Kind) {
		acts = append(acts, discordgo.SelectMenuOption{
			Label:   o.Label,
			Value:   o.Label,
			Emoji:   componentEmoji(o.Emoji),
			Default: o.Label == w.Activity,
		})
	}
	roles := make([]discordgo.SelectMenuOption, 0, len(cat.Roles))
	for _, o := range cat.Roles {
		roles = append(roles, discordgo.SelectMenuOption{
			Label:   o.Label,
			Value:   o.Label,
			Emoji:   componentEmoji(o.Emoji),
			Default: o.Label == w.Role,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    w.customID(wizActivity),
			Placeholder: kindPlaceholder[w.Kind],
			Options:     acts,
		}}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    w.customID(wizRole),
			Placeholder: "2. Choose Type/Role...",
			Options:     roles,
		}}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.Button{
			Style:    discordgo.PrimaryButton,
			Label:    "Enter Details ->",
			CustomID: w.customID(wizDetails),
			Disabled: !w.ready(),
		}}},
	}
}

const (
	fieldSize    = "size"
	fieldExpires = "expires"
	fieldNotes   = "notes"
)

func detailsModal(w wizardState) *discordgo.InteractionResponseData {
	row := func(in discordgo.TextInput) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{in}}
	}
	return &discordgo.InteractionResponseData{
		CustomID: w.customID(wizModal),
		Title:    truncate("Configure "+w.Activity, 45),
		Components: []discordgo.MessageComponent{
			row(discordgo.TextInput{
				CustomID:    fieldSize,
				Label:       "Group Size (2-100)",
				Style:       discordgo.TextInputShort,
				Placeholder: "Total people including you",
				Value:       "3",
				Required:    true,
				MinLength:   1,
				MaxLength:   3,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldExpires,
				Label:       "Expire After (Minutes)",
				Style:       discordgo.TextInputShort,
				Placeholder: "Max 180, Intervals of 5",
				Value:       "60",
				Required:    true,
				MinLength:   1,
				MaxLength:   3,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldNotes,
				Label:       "Notes (Optional)",
				Style:       discordgo.TextInputParagraph,
				Placeholder: "e.g. 300 invo, split...",
				MaxLength:   domain.MaxNoteLength,
			}),
		},
	}
}

// modalValues aplana los text inputs de un modal a custom_id -> valor.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := map[string]string{}
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if in, ok := inner.(*discordgo.TextInput); ok {
				out[in.CustomID] = in.Value
			}
		}
	}
	return out
}

// createParams convierte el modal en parámetros de creación.
func createParams(w wizardState, userID string, values map[string]string) (service.CreateParams, error) {
	size, err := strconv.Atoi(strings.TrimSpace(values[fieldSize]))
	if err != nil {
		return service.CreateParams{}, domain.ErrInvalidSize
	}
	exp, err := strconv.Atoi(strings.TrimSpace(values[fieldExpires]))
	if err != nil {
		return service.CreateParams{}, domain.ErrInvalidExpiry
	}
	return service.CreateParams{
		CreatorID:     userID,
		Activity:      w.Activity,
		Role:          w.Role,
		Size:          size,
		ExpiryMinutes: exp,
		Note:          values[fieldNotes],
	}, nil
}
