package discord

import "github.com/bwmarrin/discordgo"

// isAdmin: dueño del guild, bit Administrator o alguno de los roles configurados.
func isAdmin(g *discordgo.Guild, roles []*discordgo.Role, m *discordgo.Member, adminRoleIDs []string) bool {
	if m == nil || m.User == nil {
		return false
	}
	if g != nil && m.User.ID == g.OwnerID {
		return true
	}
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	has := make(map[string]struct{}, len(m.Roles))
	for _, rid := range m.Roles {
		has[rid] = struct{}{}
	}
	for _, ro := range roles {
		if _, ok := has[ro.ID]; ok && ro.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	for _, want := range adminRoleIDs {
		if _, ok := has[want]; ok {
			return true
		}
	}
	return false
}

func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	g, _ := s.State.Guild(ic.GuildID)
	var roles []*discordgo.Role
	if g != nil {
		roles = g.Roles
	} else {
		roles, _ = s.GuildRoles(ic.GuildID)
	}
	if isAdmin(g, roles, ic.Member, r.adminRoleIDs) {
		return true
	}
	ReplyEphemeral(s, ic, "🔒 You don't have permission for this action.")
	return false
}
