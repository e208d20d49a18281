package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	uid := ic.Member.User.ID
	defer r.recoverInteraction(s, ic, data.CustomID)

	// wizard: responde actualizando el mensaje o abriendo el modal
	if action, w, ok := parseWizardID(data.CustomID); ok {
		r.handleWizard(s, ic, action, w, data.Values)
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if !r.clicks.Allow(uid) {
		ReplyEphemeral(s, ic, "⏳ Wait a second…")
		return
	}

	switch {
	case strings.HasPrefix(data.CustomID, queueJoinPrefix):
		defer step("component.queue_join")()
		id, _ := queueIDFrom(data.CustomID, queueJoinPrefix)
		ReplyEphemeral(s, ic, r.joinReply(ctx, id, uid))

	case strings.HasPrefix(data.CustomID, queueLeavePrefix):
		defer step("component.queue_leave")()
		id, _ := queueIDFrom(data.CustomID, queueLeavePrefix)
		ReplyEphemeral(s, ic, r.leaveReply(ctx, id, uid))

	case strings.HasPrefix(data.CustomID, queueKickPrefix):
		id, _ := queueIDFrom(data.CustomID, queueKickPrefix)
		comps, msg := r.kickMenu(ctx, id, uid)
		if comps == nil {
			ReplyEphemeral(s, ic, msg)
			return
		}
		_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
			Content:    msg,
			Components: comps,
			Flags:      discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			r.log.Warn().Err(err).Int64("queue_id", id).Msg("kick menu")
		}

	case strings.HasPrefix(data.CustomID, kickSelectPrefix):
		id, _ := queueIDFrom(data.CustomID, kickSelectPrefix)
		if len(data.Values) == 0 {
			ReplyEphemeral(s, ic, "⚠️ Invalid selection.")
			return
		}
		ReplyEphemeral(s, ic, r.kickReply(ctx, id, uid, data.Values[0]))
	}
}

func (r *Router) handleWizard(s *discordgo.Session, ic *discordgo.InteractionCreate, action string, w wizardState, values []string) {
	switch action {
	case wizActivity:
		if len(values) > 0 {
			w.Activity = values[0]
		}
	case wizRole:
		if len(values) > 0 {
			w.Role = values[0]
		}
	case wizDetails:
		if !w.ready() {
			UpdateComponents(s, ic, wizardPrompt(w), wizardComponents(r.catalog, w))
			return
		}
		RespondModal(s, ic, detailsModal(w))
		return
	}
	UpdateComponents(s, ic, wizardPrompt(w), wizardComponents(r.catalog, w))
}

func (r *Router) joinReply(ctx context.Context, queueID int64, uid string) string {
	if queueID == 0 {
		return r.describe("join", domain.ErrNotFound)
	}
	if err := r.queue.Join(ctx, queueID, uid); err != nil {
		return r.describe("join", err)
	}
	q, err := r.queue.Get(ctx, queueID)
	if err != nil {
		return "✅ Joined the queue!"
	}
	return fmt.Sprintf("✅ Joined **%s** queue!", q.Activity)
}

func (r *Router) leaveReply(ctx context.Context, queueID int64, uid string) string {
	if queueID == 0 {
		return r.describe("leave", domain.ErrNotFound)
	}
	res, err := r.queue.Leave(ctx, queueID, uid)
	if err != nil {
		return r.describe("leave", err)
	}
	if res == service.LeftDisbanded {
		return "🛑 **Host Left:** queue disbanded."
	}
	return "👋 Left the queue."
}

// kickMenu arma el select con los miembros kickeables. Sin componentes, msg es el error.
func (r *Router) kickMenu(ctx context.Context, queueID int64, uid string) ([]discordgo.MessageComponent, string) {
	q, err := r.queue.Get(ctx, queueID)
	if err != nil {
		return nil, r.describe("kick", err)
	}
	if q.CreatedBy != uid {
		return nil, r.describe("kick", domain.ErrForbidden)
	}
	opts := make([]discordgo.SelectMenuOption, 0, len(q.Members))
	for i, m := range q.Members {
		if m.DiscordID == uid {
			continue
		}
		if len(opts) == 25 {
			break
		}
		opts = append(opts, discordgo.SelectMenuOption{
			Label: truncate(fmt.Sprintf("%02d) %s", i+1, m.RSN), 100),
			Value: m.DiscordID,
		})
	}
	if len(opts) == 0 {
		return nil, "ℹ️ Nobody to kick yet."
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    fmt.Sprintf("%s%d", kickSelectPrefix, queueID),
			Placeholder: "Select who to kick",
			Options:     opts,
		}},
	}}, "Choose a member to **kick**:"
}

func (r *Router) kickReply(ctx context.Context, queueID int64, uid, target string) string {
	m, err := r.queue.Kick(ctx, queueID, uid, target)
	if err != nil {
		return r.describe("kick", err)
	}
	return fmt.Sprintf("✅ Kicked **%s**.", m.RSN)
}
