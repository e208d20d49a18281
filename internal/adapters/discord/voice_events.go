package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/service"
)

func (r *Router) safeGetChannel(id string) (*discordgo.Channel, error) {
	if ch, err := r.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := r.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = r.s.State.ChannelAdd(ch)
	return ch, nil
}

// occupancy cuenta cuántos voice states del guild están en channelID.
func occupancy(g *discordgo.Guild, channelID string) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == channelID {
			n++
		}
	}
	return n
}

// onVoiceStateUpdate: sólo interesa el canal que alguien acaba de dejar.
// discordgo ya actualizó State antes de llamar al handler.
func (r *Router) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.GuildID != r.guildID || vs.BeforeUpdate == nil {
		return
	}
	left := vs.BeforeUpdate.ChannelID
	if left == "" || left == vs.ChannelID {
		return
	}
	ch, err := r.safeGetChannel(left)
	if err != nil {
		return
	}
	if ch.ParentID != r.categoryID {
		return
	}
	g, err := s.State.Guild(vs.GuildID)
	if err != nil {
		return
	}

	s.State.RLock()
	n := occupancy(g, left)
	s.State.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_, err = r.voice.HandleOccupancy(ctx, service.OccupancyChange{
		ChannelID: left,
		ParentID:  ch.ParentID,
		Members:   n,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("channel_id", left).Msg("voice teardown")
	}
}
