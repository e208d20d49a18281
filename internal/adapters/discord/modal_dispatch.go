package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleModalSubmit(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ModalSubmitData()
	defer r.recoverInteraction(s, ic, data.CustomID)

	action, w, ok := parseWizardID(data.CustomID)
	if !ok || action != wizModal {
		return
	}
	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	ReplyEphemeral(s, ic, r.createReply(ctx, w, ic.Member.User.ID, modalValues(data)))
}

func (r *Router) createReply(ctx context.Context, w wizardState, uid string, values map[string]string) string {
	if !r.catalog.HasActivity(w.Activity) || !r.catalog.HasRole(w.Role) {
		return "❌ Unknown activity or role, start again with `/" + w.Kind + "`."
	}
	p, err := createParams(w, uid, values)
	if err != nil {
		return r.describe("create", err)
	}
	id, err := r.queue.Create(ctx, p)
	if err != nil {
		return r.describe("create", err)
	}
	return fmt.Sprintf("✅ Queue created for **%s** (%s)! ID: %d", w.Activity, w.Role, id)
}
