package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

type fakeQueueActions struct {
	queues  map[int64]domain.Queue
	created []service.CreateParams
	joinErr error
	leave   service.LeaveResult
}

func (f *fakeQueueActions) Create(_ context.Context, p service.CreateParams) (int64, error) {
	if err := domain.ValidateQueueParams(p.Size, p.ExpiryMinutes); err != nil {
		return 0, err
	}
	f.created = append(f.created, p)
	return int64(len(f.created)), nil
}

func (f *fakeQueueActions) Join(context.Context, int64, string) error { return f.joinErr }

func (f *fakeQueueActions) Leave(context.Context, int64, string) (service.LeaveResult, error) {
	return f.leave, nil
}

func (f *fakeQueueActions) Kick(_ context.Context, id int64, requester, target string) (domain.QueueMember, error) {
	q, ok := f.queues[id]
	if !ok {
		return domain.QueueMember{}, domain.ErrNotFound
	}
	if q.CreatedBy != requester {
		return domain.QueueMember{}, domain.ErrForbidden
	}
	for _, m := range q.Members {
		if m.DiscordID == target {
			return m, nil
		}
	}
	return domain.QueueMember{}, domain.ErrNotMember
}

func (f *fakeQueueActions) Get(_ context.Context, id int64) (domain.Queue, error) {
	q, ok := f.queues[id]
	if !ok {
		return domain.Queue{}, domain.ErrNotFound
	}
	return q, nil
}

func (f *fakeQueueActions) ListActive(context.Context) ([]domain.Queue, error) {
	var out []domain.Queue
	for _, q := range f.queues {
		out = append(out, q)
	}
	return out, nil
}

type fakeLink struct {
	stats service.StatsView
	err   error
}

func (f fakeLink) Link(_ context.Context, _, rsn string) (string, error) {
	if err := domain.ValidateRSN(rsn); err != nil {
		return "", err
	}
	return "Linked your account to **" + rsn + "**.", nil
}

func (f fakeLink) WhoAmI(context.Context, string) (domain.User, error) {
	return domain.User{}, domain.ErrNotLinked
}

func (f fakeLink) Stats(context.Context, string, string) (service.StatsView, error) {
	return f.stats, f.err
}

type fakeSync struct{}

func (fakeSync) Sync(context.Context) (service.TickReport, error) {
	return service.TickReport{Active: 2, Edited: 2}, nil
}

func newTestRouter(t *testing.T, q *fakeQueueActions, l fakeLink) *Router {
	return &Router{
		catalog: testCatalog(t),
		queue:   q,
		link:    l,
		sync:    fakeSync{},
		clicks:  newUserLimiter(time.Second),
		log:     zerolog.Nop(),
	}
}

func zilyanaQueue() domain.Queue {
	return domain.Queue{
		ID: 3, Activity: "Zilyana", Role: "Casual", GroupSize: 3, CreatedBy: "host", HostRSN: "Hosty",
		Members: []domain.QueueMember{{DiscordID: "host", RSN: "Hosty"}, {DiscordID: "b", RSN: "Bob"}},
	}
}

func TestJoinReply(t *testing.T) {
	q := &fakeQueueActions{queues: map[int64]domain.Queue{3: zilyanaQueue()}}
	r := newTestRouter(t, q, fakeLink{})
	ctx := context.Background()

	assert.Equal(t, "✅ Joined **Zilyana** queue!", r.joinReply(ctx, 3, "c"))

	q.joinErr = domain.ErrFull
	assert.Equal(t, "❌ Queue is full.", r.joinReply(ctx, 3, "c"))
	assert.Contains(t, r.joinReply(ctx, 0, "c"), "not found")
}

func TestLeaveReply(t *testing.T) {
	q := &fakeQueueActions{}
	r := newTestRouter(t, q, fakeLink{})
	assert.Equal(t, "👋 Left the queue.", r.leaveReply(context.Background(), 3, "b"))
	q.leave = service.LeftDisbanded
	assert.Contains(t, r.leaveReply(context.Background(), 3, "host"), "disbanded")
}

func TestKickMenuAndReply(t *testing.T) {
	q := &fakeQueueActions{queues: map[int64]domain.Queue{3: zilyanaQueue()}}
	r := newTestRouter(t, q, fakeLink{})
	ctx := context.Background()

	comps, msg := r.kickMenu(ctx, 3, "b")
	assert.Nil(t, comps)
	assert.Contains(t, msg, "Only the host")

	comps, _ = r.kickMenu(ctx, 3, "host")
	require.Len(t, comps, 1)
	menu := comps[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, "kick_select:3", menu.CustomID)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, "b", menu.Options[0].Value)

	assert.Equal(t, "✅ Kicked **Bob**.", r.kickReply(ctx, 3, "host", "b"))
	assert.Contains(t, r.kickReply(ctx, 3, "host", "zzz"), "not in this queue")
}

func TestCreateReply(t *testing.T) {
	q := &fakeQueueActions{}
	r := newTestRouter(t, q, fakeLink{})
	ctx := context.Background()
	w := wizardState{Kind: "raid", Activity: "ToA", Role: "Learner"}

	msg := r.createReply(ctx, w, "u", map[string]string{fieldSize: "3", fieldExpires: "30"})
	assert.Equal(t, "✅ Queue created for **ToA** (Learner)! ID: 1", msg)

	msg = r.createReply(ctx, w, "u", map[string]string{fieldSize: "3", fieldExpires: "33"})
	assert.Contains(t, msg, "intervals of 5")

	msg = r.createReply(ctx, wizardState{Kind: "raid", Activity: "Nope", Role: "Learner"}, "u", nil)
	assert.Contains(t, msg, "Unknown activity")
	assert.Len(t, q.created, 1)
}

func TestCommandReplies(t *testing.T) {
	q := &fakeQueueActions{queues: map[int64]domain.Queue{3: zilyanaQueue()}}
	r := newTestRouter(t, q, fakeLink{err: domain.ErrNotFound})
	ctx := context.Background()

	assert.Equal(t, "✅ Linked your account to **Zezima**.", r.linkReply(ctx, "u", "Zezima"))
	assert.Contains(t, r.linkReply(ctx, "u", "bad!name"), "valid RSN")
	assert.Contains(t, r.whoamiReply(ctx, "u"), "link your RSN")
	assert.Contains(t, r.queuesReply(ctx), "**Zilyana (Casual)** 2/3 · host Hosty · ID 3")
	assert.Contains(t, r.syncReply(ctx), "Synced 2 active queues")

	msg, embed := r.statsReply(ctx, "u", "Nobody")
	assert.Nil(t, embed)
	assert.Contains(t, msg, "No hiscores")
}

func TestStatsEmbed(t *testing.T) {
	v := service.StatsView{
		Hiscore: domain.Hiscore{RSN: "Zezima", Skills: map[domain.Skill]domain.SkillStat{
			domain.SkillOverall: {Level: 1500},
			domain.SkillAttack:  {Level: 99},
		}},
		Combat: 87, CombatOK: true,
	}
	em := statsEmbed(v)
	assert.Equal(t, "Hiscores: Zezima", em.Title)
	assert.Equal(t, "87.00", em.Fields[0].Value)
	assert.Equal(t, "1500", em.Fields[1].Value)
	assert.Contains(t, em.Fields[2].Value, "Attack: **99**")

	v.CombatOK = false
	assert.Equal(t, "Unavailable", statsEmbed(v).Fields[0].Value)
}
