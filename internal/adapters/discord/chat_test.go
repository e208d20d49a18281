package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
)

type fakeREST struct {
	sent    []*discordgo.MessageSend
	sentTo  []string
	edits   []*discordgo.MessageEdit
	deleted []string
	created []discordgo.GuildChannelCreateData
	err     error
}

func (f *fakeREST) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, data)
	f.sentTo = append(f.sentTo, channelID)
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (f *fakeREST) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeREST) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeREST) GuildChannelCreateComplex(_ string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, data)
	return &discordgo.Channel{ID: "vc-9", Name: data.Name}, nil
}

func (f *fakeREST) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, channelID)
	return &discordgo.Channel{ID: channelID}, nil
}

var chatCfg = ChatConfig{
	GuildID:          "guild",
	LFGChannelID:     "lfg",
	ArchiveChannelID: "archive",
	CategoryID:       "cat",
	BotUserID:        "bot",
}

func sampleSummary() present.Summary {
	return present.Summary{
		QueueID: 7, Title: "Zilyana (Casual)", Role: "Casual", State: present.Open,
		Host: "Alice", Size: "1 / 3", Count: 1, Capacity: 3, Roster: []string{"Alice"},
		Footer: "Expires in 30 mins | ID: 7",
	}
}

func TestChat_SendQueue(t *testing.T) {
	api := &fakeREST{}
	c := NewChat(api, chatCfg, RoleBadges{"Casual": "☕"})

	ref, err := c.SendQueue(context.Background(), sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, domain.MessageRef{ChannelID: "lfg", MessageID: "msg-1"}, ref)

	require.Len(t, api.sent, 1)
	em := api.sent[0].Embeds[0]
	assert.Equal(t, "☕ Zilyana (Casual)", em.Title)
	assert.Equal(t, colorOpen, em.Color)
	assert.Equal(t, "Expires in 30 mins | ID: 7", em.Footer.Text)

	row := api.sent[0].Components[0].(discordgo.ActionsRow)
	join := row.Components[0].(discordgo.Button)
	assert.Equal(t, "queue_join:7", join.CustomID)
	assert.False(t, join.Disabled)
}

func TestChat_EditMapsUnknownMessage(t *testing.T) {
	api := &fakeREST{err: &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: codeUnknownMessage, Message: "Unknown Message"},
	}}
	c := NewChat(api, chatCfg, nil)

	err := c.EditQueue(context.Background(), domain.MessageRef{ChannelID: "lfg", MessageID: "x"}, sampleSummary())
	assert.ErrorIs(t, err, domain.ErrRemoteNotFound)

	err = c.DeleteMessage(context.Background(), domain.MessageRef{ChannelID: "lfg", MessageID: "x"})
	assert.ErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestChat_OtherErrorsAreUnavailable(t *testing.T) {
	api := &fakeREST{err: errors.New("dial tcp: timeout")}
	c := NewChat(api, chatCfg, nil)

	_, err := c.SendQueue(context.Background(), sampleSummary())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestChat_CreateVoiceChannelPermissions(t *testing.T) {
	api := &fakeREST{}
	c := NewChat(api, chatCfg, nil)

	ch, err := c.CreateVoiceChannel(context.Background(), "Zilyana - Team 7")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.com/channels/guild/vc-9", ch.JumpURL)

	require.Len(t, api.created, 1)
	data := api.created[0]
	assert.Equal(t, discordgo.ChannelTypeGuildVoice, data.Type)
	assert.Equal(t, "cat", data.ParentID)
	require.Len(t, data.PermissionOverwrites, 2)
	everyone := data.PermissionOverwrites[0]
	assert.Equal(t, "guild", everyone.ID)
	assert.Equal(t, int64(discordgo.PermissionVoiceConnect), everyone.Deny)
	bot := data.PermissionOverwrites[1]
	assert.Equal(t, "bot", bot.ID)
	assert.Equal(t, int64(discordgo.PermissionVoiceConnect), bot.Allow)
}

func TestChat_AnnounceFull(t *testing.T) {
	api := &fakeREST{}
	c := NewChat(api, chatCfg, nil)
	ch := domain.ChannelRef{ID: "vc-9", Name: "Zilyana - Team 7", JumpURL: "https://discord.com/channels/guild/vc-9"}

	require.NoError(t, c.AnnounceFull(context.Background(), sampleSummary(), ch, []string{"<@A>", "<@B>"}))
	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Content, "Queue Full!")
	assert.Contains(t, api.sent[0].Content, "<@A> <@B>")
	btn := api.sent[0].Components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, discordgo.LinkButton, btn.Style)
	assert.Equal(t, ch.JumpURL, btn.URL)
}

func TestChat_PostArchive(t *testing.T) {
	api := &fakeREST{}
	s := sampleSummary()
	s.State = present.Archived

	require.NoError(t, NewChat(api, chatCfg, nil).PostArchive(context.Background(), s))
	require.Len(t, api.sent, 1)
	assert.Equal(t, "archive", api.sentTo[0])
	assert.Equal(t, colorArchived, api.sent[0].Embeds[0].Color)
	assert.Empty(t, api.sent[0].Components)

	// sin canal de archivo no se publica nada
	noArchive := chatCfg
	noArchive.ArchiveChannelID = ""
	api2 := &fakeREST{}
	require.NoError(t, NewChat(api2, noArchive, nil).PostArchive(context.Background(), s))
	assert.Empty(t, api2.sent)
}
