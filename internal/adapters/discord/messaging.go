package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/infra/logging"
)

// el token de interacción ya no sirve (webhook desconocido)
const codeUnknownWebhook = 10015

// msgLog se resuelve en cada uso para tomar el logger ya inicializado.
func msgLog() zerolog.Logger { return logging.WithComponent("discord") }

// Defer efímero (para trabajos >3s)
func DeferEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		l := msgLog()
		l.Warn().Err(err).Msg("defer ephemeral")
	}
	return err
}

// ReplyEphemeral manda el followup de una interacción ya diferida.
func ReplyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Embeds:  embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err == nil {
		return
	}
	// Fallback sólo si todavía no hay respuesta
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Message != nil && re.Message.Code == codeUnknownWebhook {
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
				Embeds:  embeds,
			},
		})
		return
	}
	l := msgLog()
	l.Warn().Err(err).Msg("reply ephemeral")
}

// RespondComponents responde con un mensaje efímero con componentes (sin defer).
func RespondComponents(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, comps []discordgo.MessageComponent) {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: comps,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		l := msgLog()
		l.Warn().Err(err).Msg("respond components")
	}
}

// UpdateComponents reemplaza el mensaje que originó el click (wizard).
func UpdateComponents(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, comps []discordgo.MessageComponent) {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: comps,
		},
	})
	if err != nil {
		l := msgLog()
		l.Warn().Err(err).Msg("update components")
	}
}

func RespondModal(s *discordgo.Session, ic *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		l := msgLog()
		l.Warn().Err(err).Msg("respond modal")
	}
}
