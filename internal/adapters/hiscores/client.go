package hiscores

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bosscape/lfg-bot/internal/domain"
)

// Lookup trae el hiscore de un RSN desde index_lite.ws.
func (c *Client) Lookup(ctx context.Context, rsn string) (domain.Hiscore, error) {
	q := url.Values{}
	q.Set("player", rsn)
	body, err := c.get(ctx, "/index_lite.ws", q)
	if err != nil {
		return domain.Hiscore{}, err
	}
	hs, err := Parse(rsn, body)
	if err != nil {
		return domain.Hiscore{}, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return hs, nil
}

// Parse lee las líneas "rank,level,xp" en el orden de domain.SkillOrder.
// Las líneas de actividades/bosses que vienen después se ignoran.
func Parse(rsn string, body []byte) (domain.Hiscore, error) {
	hs := domain.Hiscore{RSN: rsn, Skills: make(map[domain.Skill]domain.SkillStat, len(domain.SkillOrder))}
	sc := bufio.NewScanner(bytes.NewReader(body))
	i := 0
	for sc.Scan() && i < len(domain.SkillOrder) {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return domain.Hiscore{}, fmt.Errorf("line %d: want rank,level,xp, got %q", i+1, line)
		}
		var nums [3]int64
		for j, p := range parts {
			n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return domain.Hiscore{}, fmt.Errorf("line %d: %w", i+1, err)
			}
			nums[j] = n
		}
		hs.Skills[domain.SkillOrder[i]] = domain.SkillStat{Rank: nums[0], Level: int(nums[1]), XP: nums[2]}
		i++
	}
	if err := sc.Err(); err != nil {
		return domain.Hiscore{}, err
	}
	if i == 0 {
		return domain.Hiscore{}, fmt.Errorf("empty hiscore")
	}
	return hs, nil
}
