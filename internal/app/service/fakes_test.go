package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUsers(links map[string]string) *fakeUsers {
	u := &fakeUsers{users: map[string]domain.User{}}
	for id, rsn := range links {
		u.users[id] = domain.User{DiscordID: id, RSN: rsn, LinkedAt: t0}
	}
	return u
}

func (f *fakeUsers) GetByDiscordID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpsertLink(_ context.Context, id, rsn string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.users[id]
	f.users[id] = domain.User{DiscordID: id, RSN: rsn, LinkedAt: t0}
	return !exists, nil
}

func (f *fakeUsers) NamesByDiscordIDs(_ context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.RSN
		}
	}
	return out, nil
}

// fakeQueues reproduce la semántica del store bajo un mutex. Los miembros
// viven en su propia "tabla" y Delete los borra en cascada.
type fakeQueues struct {
	mu      sync.Mutex
	nextID  int64
	queues  map[int64]*domain.Queue
	members []domain.QueueMember
	claimed map[int64]time.Time
	clock   func() time.Time

	// cuántas llamadas a SetVoiceChannel fallan antes de funcionar
	failSetVoice  int
	setVoiceCalls int
}

var errConnReset = errors.New("db: connection reset")

func newFakeQueues(clock func() time.Time) *fakeQueues {
	return &fakeQueues{queues: map[int64]*domain.Queue{}, claimed: map[int64]time.Time{}, clock: clock}
}

// view arma la cola con sus miembros en orden de join. Requiere f.mu.
func (f *fakeQueues) view(q *domain.Queue) domain.Queue {
	c := *q
	c.Members = nil
	for _, m := range f.members {
		if m.QueueID == q.ID {
			c.Members = append(c.Members, m)
		}
	}
	if q.Message != nil {
		m := *q.Message
		c.Message = &m
	}
	return c
}

func (f *fakeQueues) memberRows(queueID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.members {
		if m.QueueID == queueID {
			n++
		}
	}
	return n
}

func (f *fakeQueues) CreateWithHost(_ context.Context, q domain.Queue, host domain.QueueMember) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	q.ID = f.nextID
	q.Members = nil
	host.QueueID = q.ID
	f.queues[q.ID] = &q
	f.members = append(f.members, host)
	return q.ID, nil
}

func (f *fakeQueues) Get(_ context.Context, id int64) (domain.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[id]
	if !ok {
		return domain.Queue{}, domain.ErrNotFound
	}
	return f.view(q), nil
}

func (f *fakeQueues) list(keep func(q *domain.Queue) bool) []domain.Queue {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Queue
	for _, q := range f.queues {
		if keep(q) {
			out = append(out, f.view(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeQueues) ListActive(_ context.Context, now time.Time) ([]domain.Queue, error) {
	return f.list(func(q *domain.Queue) bool { return q.ExpiresAt.After(now) }), nil
}

func (f *fakeQueues) ListExpired(_ context.Context, now time.Time) ([]domain.Queue, error) {
	return f.list(func(q *domain.Queue) bool { return !q.ExpiresAt.After(now) }), nil
}

func (f *fakeQueues) AddMember(_ context.Context, m domain.QueueMember, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.queues[m.QueueID]
	if !ok || !row.ExpiresAt.After(now) {
		return domain.ErrNotFound
	}
	q := f.view(row)
	if q.IsMember(m.DiscordID) {
		return domain.ErrAlreadyMember
	}
	if q.IsFull() {
		return domain.ErrFull
	}
	f.members = append(f.members, m)
	return nil
}

func (f *fakeQueues) RemoveMember(_ context.Context, queueID int64, id string) (domain.QueueMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queues[queueID]; !ok {
		return domain.QueueMember{}, domain.ErrNotFound
	}
	for i, m := range f.members {
		if m.QueueID == queueID && m.DiscordID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return m, nil
		}
	}
	return domain.QueueMember{}, domain.ErrNotFound
}

// dropLocked borra la fila y sus miembros (ON DELETE CASCADE). Requiere f.mu.
func (f *fakeQueues) dropLocked(id int64) bool {
	_, ok := f.queues[id]
	delete(f.queues, id)
	delete(f.claimed, id)
	kept := f.members[:0]
	for _, m := range f.members {
		if m.QueueID != id {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return ok
}

func (f *fakeQueues) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropLocked(id), nil
}

func (f *fakeQueues) SetMessage(_ context.Context, id int64, ref domain.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Message = &ref
	return nil
}

func (f *fakeQueues) ClaimVoice(_ context.Context, id int64, staleAfter time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[id]
	if !ok || q.VoiceChannelID != "" {
		return false, nil
	}
	now := f.clock()
	if at, ok := f.claimed[id]; ok && now.Sub(at) <= staleAfter {
		return false, nil
	}
	f.claimed[id] = now
	return true, nil
}

func (f *fakeQueues) SetVoiceChannel(_ context.Context, id int64, ch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setVoiceCalls++
	if f.failSetVoice > 0 {
		f.failSetVoice--
		return errConnReset
	}
	q, ok := f.queues[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.VoiceChannelID = ch
	return nil
}

func (f *fakeQueues) ReleaseVoiceClaim(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claimed, id)
	return nil
}

func (f *fakeQueues) isClaimed(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.claimed[id]
	return ok
}

// hook para simular una cola que se borra entre listar y persistir.
func (f *fakeQueues) deleteNow(id int64) {
	f.mu.Lock()
	f.dropLocked(id)
	f.mu.Unlock()
}

type fakeChat struct {
	mu       sync.Mutex
	next     int
	messages map[string]present.Summary
	archived []present.Summary
	channels map[string]string
	announce []domain.ChannelRef
	mentions [][]string

	failCreate error
	failEdit   error
	onSend     func(s present.Summary)
}

func newFakeChat() *fakeChat {
	return &fakeChat{messages: map[string]present.Summary{}, channels: map[string]string{}}
}

func (c *fakeChat) SendQueue(_ context.Context, s present.Summary) (domain.MessageRef, error) {
	if c.onSend != nil {
		c.onSend(s)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	id := fmt.Sprintf("m%d", c.next)
	c.messages[id] = s
	return domain.MessageRef{ChannelID: "lfg", MessageID: id}, nil
}

func (c *fakeChat) EditQueue(_ context.Context, ref domain.MessageRef, s present.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failEdit != nil {
		return c.failEdit
	}
	if _, ok := c.messages[ref.MessageID]; !ok {
		return domain.ErrRemoteNotFound
	}
	c.messages[ref.MessageID] = s
	return nil
}

func (c *fakeChat) DeleteMessage(_ context.Context, ref domain.MessageRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.messages[ref.MessageID]; !ok {
		return domain.ErrRemoteNotFound
	}
	delete(c.messages, ref.MessageID)
	return nil
}

func (c *fakeChat) PostArchive(_ context.Context, s present.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.archived = append(c.archived, s)
	return nil
}

func (c *fakeChat) CreateVoiceChannel(_ context.Context, name string) (domain.ChannelRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failCreate != nil {
		return domain.ChannelRef{}, c.failCreate
	}
	c.next++
	id := fmt.Sprintf("v%d", c.next)
	c.channels[id] = name
	return domain.ChannelRef{ID: id, Name: name, JumpURL: "https://discord.com/channels/g/" + id}, nil
}

func (c *fakeChat) DeleteVoiceChannel(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.channels[id]; !ok {
		return domain.ErrRemoteNotFound
	}
	delete(c.channels, id)
	return nil
}

func (c *fakeChat) AnnounceFull(_ context.Context, _ present.Summary, ch domain.ChannelRef, mentions []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.announce = append(c.announce, ch)
	c.mentions = append(c.mentions, mentions)
	return nil
}

func (c *fakeChat) messageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeChat) channelCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

type fakeNotes struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *fakeNotes) Add(_ context.Context, id, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, domain.Notification{ID: int64(len(n.notes) + 1), DiscordID: id, Message: msg, CreatedAt: t0})
	return nil
}

func (n *fakeNotes) ListFor(_ context.Context, id string, limit int) ([]domain.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, x := range n.notes {
		if x.DiscordID == id && len(out) < limit {
			out = append(out, x)
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	saved []domain.StatSnapshot
}

func (s *fakeSnapshots) Add(_ context.Context, snap domain.StatSnapshot) error {
	s.saved = append(s.saved, snap)
	return nil
}

func (s *fakeSnapshots) Latest(_ context.Context, id string) (domain.StatSnapshot, error) {
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].DiscordID == id {
			return s.saved[i], nil
		}
	}
	return domain.StatSnapshot{}, domain.ErrNotFound
}

type fakeHiscores struct {
	byName map[string]domain.Hiscore
	err    error
}

func (h fakeHiscores) Lookup(_ context.Context, rsn string) (domain.Hiscore, error) {
	if h.err != nil {
		return domain.Hiscore{}, h.err
	}
	hs, ok := h.byName[rsn]
	if !ok {
		return domain.Hiscore{}, domain.ErrNotFound
	}
	return hs, nil
}

type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (r *countingRefresher) Nudge() {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// harness arma el core completo sobre fakes.
type harness struct {
	clock   *fakeClock
	users   *fakeUsers
	queues  *fakeQueues
	chat    *fakeChat
	notes   *fakeNotes
	refresh *countingRefresher

	svc   *QueueService
	voice *VoiceService
	rec   *Reconciler
}

const testCategory = "cat-1"

func newHarness(links map[string]string) *harness {
	clock := &fakeClock{now: t0}
	h := &harness{
		clock:   clock,
		users:   newFakeUsers(links),
		queues:  newFakeQueues(clock.Now),
		chat:    newFakeChat(),
		notes:   &fakeNotes{},
		refresh: &countingRefresher{},
	}
	arch := NewArchiver(h.queues, h.chat, clock.Now)
	h.voice = NewVoiceService(h.queues, h.notes, h.chat, testCategory, clock.Now)
	h.voice.saveRetryWait = 0
	h.rec = NewReconciler(h.queues, h.chat, h.voice, arch, time.Second, clock.Now)
	h.svc = NewQueueService(h.users, h.queues, arch, h.refresh, clock.Now)
	return h
}
