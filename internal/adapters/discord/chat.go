package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
)

// restAPI es el subconjunto de *discordgo.Session que usa Chat.
type restAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

type ChatConfig struct {
	GuildID          string
	LFGChannelID     string
	ArchiveChannelID string // vacío = sin archivo
	CategoryID       string
	BotUserID        string
	Timeout          time.Duration
}

// Chat implementa service.Chat sobre la API REST de Discord.
type Chat struct {
	api   restAPI
	cfg   ChatConfig
	roles RoleBadges
}

func NewChat(api restAPI, cfg ChatConfig, roles RoleBadges) *Chat {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Chat{api: api, cfg: cfg, roles: roles}
}

func (c *Chat) call(ctx context.Context) (discordgo.RequestOption, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	return discordgo.WithContext(ctx), cancel
}

func (c *Chat) SendQueue(ctx context.Context, s present.Summary) (domain.MessageRef, error) {
	opt, cancel := c.call(ctx)
	defer cancel()
	msg, err := c.api.ChannelMessageSendComplex(c.cfg.LFGChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{queueEmbed(s, c.roles)},
		Components: queueComponents(s),
	}, opt)
	if err != nil {
		return domain.MessageRef{}, remoteErr("send queue message", err)
	}
	return domain.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (c *Chat) EditQueue(ctx context.Context, ref domain.MessageRef, s present.Summary) error {
	opt, cancel := c.call(ctx)
	defer cancel()
	em := []*discordgo.MessageEmbed{queueEmbed(s, c.roles)}
	cc := queueComponents(s)
	_, err := c.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ref.ChannelID,
		ID:         ref.MessageID,
		Embeds:     &em,
		Components: &cc,
	}, opt)
	return remoteErr("edit queue message", err)
}

func (c *Chat) DeleteMessage(ctx context.Context, ref domain.MessageRef) error {
	opt, cancel := c.call(ctx)
	defer cancel()
	return remoteErr("delete message", c.api.ChannelMessageDelete(ref.ChannelID, ref.MessageID, opt))
}

func (c *Chat) PostArchive(ctx context.Context, s present.Summary) error {
	if c.cfg.ArchiveChannelID == "" {
		return nil
	}
	opt, cancel := c.call(ctx)
	defer cancel()
	_, err := c.api.ChannelMessageSendComplex(c.cfg.ArchiveChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{queueEmbed(s, c.roles)},
	}, opt)
	return remoteErr("post archive", err)
}

// CreateVoiceChannel crea el canal en la categoría gestionada. @everyone no
// puede conectarse, el bot sí; los miembros entran por el link del anuncio.
func (c *Chat) CreateVoiceChannel(ctx context.Context, name string) (domain.ChannelRef, error) {
	opt, cancel := c.call(ctx)
	defer cancel()
	ch, err := c.api.GuildChannelCreateComplex(c.cfg.GuildID, voiceChannelData(name, c.cfg), opt)
	if err != nil {
		return domain.ChannelRef{}, remoteErr("create voice channel", err)
	}
	return domain.ChannelRef{ID: ch.ID, Name: ch.Name, JumpURL: jumpURL(c.cfg.GuildID, ch.ID)}, nil
}

func voiceChannelData(name string, cfg ChatConfig) discordgo.GuildChannelCreateData {
	overwrites := []*discordgo.PermissionOverwrite{{
		// el rol @everyone tiene el mismo id que el guild
		ID:   cfg.GuildID,
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionVoiceConnect,
	}}
	if cfg.BotUserID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.BotUserID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionVoiceConnect,
		})
	}
	return discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		ParentID:             cfg.CategoryID,
		PermissionOverwrites: overwrites,
	}
}

func (c *Chat) DeleteVoiceChannel(ctx context.Context, channelID string) error {
	opt, cancel := c.call(ctx)
	defer cancel()
	_, err := c.api.ChannelDelete(channelID, opt)
	return remoteErr("delete voice channel", err)
}

func (c *Chat) AnnounceFull(ctx context.Context, s present.Summary, ch domain.ChannelRef, mentions []string) error {
	opt, cancel := c.call(ctx)
	defer cancel()
	_, err := c.api.ChannelMessageSendComplex(c.cfg.LFGChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("✅ **Queue Full!** %s\n**%s** voice channel created: <#%s>",
			strings.Join(mentions, " "), s.Title, ch.ID),
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{discordgo.Button{
				Style: discordgo.LinkButton,
				Label: "Join Voice Channel",
				URL:   ch.JumpURL,
				Emoji: &discordgo.ComponentEmoji{Name: "🔊"},
			}},
		}},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}, opt)
	return remoteErr("announce full", err)
}

func jumpURL(guildID, channelID string) string {
	return "https://discord.com/channels/" + guildID + "/" + channelID
}

// códigos JSON de Discord para recursos inexistentes
const (
	codeUnknownChannel = 10003
	codeUnknownMessage = 10008
)

// remoteErr traduce errores REST: 404/unknown → ErrRemoteNotFound, el resto → ErrRemoteUnavailable.
func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *discordgo.RESTError
	if errors.As(err, &re) {
		if re.Message != nil && (re.Message.Code == codeUnknownMessage || re.Message.Code == codeUnknownChannel) {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrRemoteNotFound, err)
		}
		if re.Response != nil && re.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrRemoteNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrRemoteUnavailable, err)
}
