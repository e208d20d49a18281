package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bosscape/lfg-bot/internal/infra/config"
)

// RoleBadges resuelve el emoji de cada rol del catálogo. Si el guild tiene
// un emoji custom con el nombre del rol (ej. :sweat:), pisa el del catálogo.
type RoleBadges map[string]string

func NewRoleBadges(cat config.Catalog) RoleBadges {
	b := make(RoleBadges, len(cat.Roles))
	for _, r := range cat.Roles {
		if r.Emoji != "" {
			b[r.Label] = r.Emoji
		}
	}
	return b
}

var emojiNameRe = regexp.MustCompile(`(?i)^(?:lfg_?|role_?)?([a-z]+)$`)

// Discover busca emojis custom del guild que coincidan con un rol.
// Se llama una vez al arrancar, antes de compartir el mapa.
func (b RoleBadges) Discover(cat config.Catalog, emojis []*discordgo.Emoji) {
	for _, e := range emojis {
		m := emojiNameRe.FindStringSubmatch(e.Name)
		if len(m) != 2 {
			continue
		}
		for _, r := range cat.Roles {
			if strings.EqualFold(r.Label, m[1]) {
				b[r.Label] = "<:" + e.Name + ":" + e.ID + ">"
			}
		}
	}
}

// Badge devuelve el emoji del rol o "" si no hay.
func (b RoleBadges) Badge(role string) string {
	if b == nil {
		return ""
	}
	return b[role]
}

// componentEmoji convierte "<:name:id>" o un unicode al formato de componentes.
func componentEmoji(s string) *discordgo.ComponentEmoji {
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "<:") && strings.HasSuffix(s, ">") {
		parts := strings.Split(strings.Trim(s, "<>"), ":")
		if len(parts) == 3 {
			return &discordgo.ComponentEmoji{Name: parts[1], ID: parts[2]}
		}
	}
	return &discordgo.ComponentEmoji{Name: s}
}
