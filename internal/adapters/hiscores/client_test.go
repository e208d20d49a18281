package hiscores

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosscape/lfg-bot/internal/domain"
)

func feed(levels ...int) string {
	var b strings.Builder
	for i, l := range levels {
		fmt.Fprintf(&b, "%d,%d,%d\n", 1000+i, l, l*1000)
	}
	// actividades al final
	b.WriteString("-1,-1\n-1,-1\n")
	return b.String()
}

func fullFeed() string {
	lv := make([]int, len(domain.SkillOrder))
	for i := range lv {
		lv[i] = 1
	}
	// overall, attack, defence, strength, hitpoints, ranged, prayer, magic
	copy(lv, []int{500, 70, 70, 70, 70, 1, 52, 1})
	return feed(lv...)
}

func TestLookup_ParsesSkills(t *testing.T) {
	var gotPlayer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index_lite.ws", r.URL.Path)
		gotPlayer = r.URL.Query().Get("player")
		fmt.Fprint(w, fullFeed())
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	hs, err := c.Lookup(context.Background(), "Lynx Titan")
	require.NoError(t, err)
	assert.Equal(t, "Lynx Titan", gotPlayer)
	assert.Len(t, hs.Skills, len(domain.SkillOrder))
	assert.Equal(t, 70, hs.Skills[domain.SkillAttack].Level)
	assert.Equal(t, 52, hs.Skills[domain.SkillPrayer].Level)

	cb, ok := domain.CombatLevel(hs.Levels())
	require.True(t, ok)
	assert.InDelta(t, 87.0, cb, 0.001)
}

func TestLookup_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unknown player", http.StatusNotFound, "", domain.ErrNotFound},
		{"server error", http.StatusBadGateway, "bad gateway", domain.ErrRemoteUnavailable},
		{"garbage body", http.StatusOK, "<html>oops</html>", domain.ErrRemoteUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			_, err := New(WithBaseURL(srv.URL)).Lookup(context.Background(), "x")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLookup_RetriesOnceAfter429(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, fullFeed())
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetryWait(10*time.Millisecond))
	_, err := c.Lookup(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestParse_StopsAtSkills(t *testing.T) {
	hs, err := Parse("a", []byte("1,2,3\n\n4,5,6\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.SkillStat{Rank: 1, Level: 2, XP: 3}, hs.Skills[domain.SkillOverall])
	assert.Equal(t, domain.SkillStat{Rank: 4, Level: 5, XP: 6}, hs.Skills[domain.SkillAttack])

	_, err = Parse("a", []byte(""))
	assert.Error(t, err)
}
