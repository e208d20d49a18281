// lógica de InteractionApplicationCommand: sólo parsea la interacción y
// despacha a los servicios
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	uid := ic.Member.User.ID
	r.log.Info().Str("cmd", cmd.Name).Str("user", uid).Msg("slash command")
	defer r.recoverInteraction(s, ic, "/"+cmd.Name)

	switch cmd.Name {
	// el wizard responde directo, sin defer
	case "raid", "boss", "event":
		w := wizardState{Kind: cmd.Name}
		RespondComponents(s, ic, wizardPrompt(w), wizardComponents(r.catalog, w))
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {
	case "link":
		rsn, _ := optStr(ic, "rsn")
		ReplyEphemeral(s, ic, r.linkReply(ctx, uid, rsn))

	case "whoami":
		ReplyEphemeral(s, ic, r.whoamiReply(ctx, uid))

	case "stats":
		rsn, _ := optStr(ic, "rsn")
		msg, embed := r.statsReply(ctx, uid, rsn)
		if embed != nil {
			ReplyEphemeral(s, ic, msg, embed)
			return
		}
		ReplyEphemeral(s, ic, msg)

	case "queues":
		ReplyEphemeral(s, ic, r.queuesReply(ctx))

	case "lfgsync":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		ReplyEphemeral(s, ic, r.syncReply(ctx))
	}
}

func wizardPrompt(w wizardState) string {
	if w.ready() {
		return fmt.Sprintf("**%s** (%s) selected. Press **Enter Details** to continue.", w.Activity, w.Role)
	}
	return "Choose an activity and a role, then press **Enter Details**."
}

// describe devuelve el texto para el usuario y loguea lo inesperado.
func (r *Router) describe(op string, err error) string {
	msg, ok := service.Describe(err)
	if !ok {
		r.log.Error().Err(err).Str("op", op).Msg("unexpected error")
	}
	return msg
}

func (r *Router) linkReply(ctx context.Context, uid, rsn string) string {
	msg, err := r.link.Link(ctx, uid, rsn)
	if err != nil {
		return r.describe("link", err)
	}
	return "✅ " + msg
}

func (r *Router) whoamiReply(ctx context.Context, uid string) string {
	u, err := r.link.WhoAmI(ctx, uid)
	if err != nil {
		return r.describe("whoami", err)
	}
	return fmt.Sprintf("You are linked as **%s** (since <t:%d:R>).", u.RSN, u.LinkedAt.Unix())
}

func (r *Router) statsReply(ctx context.Context, uid, rsn string) (string, *discordgo.MessageEmbed) {
	v, err := r.link.Stats(ctx, uid, rsn)
	if errors.Is(err, domain.ErrNotFound) {
		return "❌ No hiscores found for that RSN.", nil
	}
	if err != nil {
		return r.describe("stats", err), nil
	}
	return "", statsEmbed(v)
}

func statsEmbed(v service.StatsView) *discordgo.MessageEmbed {
	combat := "Unavailable"
	if v.CombatOK {
		combat = fmt.Sprintf("%.2f", v.Combat)
	}
	var b strings.Builder
	for _, sk := range domain.SkillOrder {
		st, ok := v.Hiscore.Skills[sk]
		if !ok || sk == domain.SkillOverall {
			continue
		}
		fmt.Fprintf(&b, "%s: **%d**\n", capitalize(string(sk)), st.Level)
	}
	fields := []*discordgo.MessageEmbedField{{Name: "Combat", Value: combat, Inline: true}}
	if o, ok := v.Hiscore.Skills[domain.SkillOverall]; ok {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Total", Value: fmt.Sprintf("%d", o.Level), Inline: true})
	}
	if b.Len() > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Skills", Value: truncate(b.String(), 1024)})
	}
	return &discordgo.MessageEmbed{
		Title:  "Hiscores: " + v.Hiscore.RSN,
		Color:  colorOpen,
		Fields: fields,
	}
}

func (r *Router) queuesReply(ctx context.Context) string {
	qs, err := r.queue.ListActive(ctx)
	if err != nil {
		return r.describe("queues", err)
	}
	if len(qs) == 0 {
		return "ℹ️ No active groups right now. Start one with `/boss` or `/raid`."
	}
	var b strings.Builder
	for _, q := range qs {
		line := fmt.Sprintf("• **%s (%s)** %d/%d · host %s · ID %d\n", q.Activity, q.Role, len(q.Members), q.GroupSize, q.HostRSN, q.ID)
		if b.Len()+len(line) > 1900 {
			b.WriteString("…")
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func (r *Router) syncReply(ctx context.Context) string {
	rep, err := r.sync.Sync(ctx)
	if err != nil {
		return r.describe("lfgsync", err)
	}
	return fmt.Sprintf("🔄 Synced %d active queues (%d sent, %d edited, %d voice, %d archived, %d errors).",
		rep.Active, rep.Sent, rep.Edited, rep.Provisioned, rep.Archived, rep.Errors)
}
