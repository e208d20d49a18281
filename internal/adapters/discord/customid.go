package discord

import (
	"strconv"
	"strings"
)

// Prefijos de custom_id. Todo el estado viaja en el id: nada queda en memoria
// entre interacciones.
const (
	queueJoinPrefix  = "queue_join:"
	queueLeavePrefix = "queue_leave:"
	queueKickPrefix  = "queue_kick:"
	kickSelectPrefix = "kick_select:"

	wizardPrefix = "wiz_"
)

// queueIDFrom lee el id de cola de un custom_id con el prefijo dado.
func queueIDFrom(customID, prefix string) (int64, bool) {
	if !strings.HasPrefix(customID, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(customID, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Acciones del wizard de creación.
const (
	wizActivity = "act"
	wizRole     = "role"
	wizDetails  = "go"
	wizModal    = "modal"
)

// wizardState son las selecciones hechas hasta ahora en el wizard.
type wizardState struct {
	Kind     string // raid, boss, event
	Activity string
	Role     string
}

func (w wizardState) customID(action string) string {
	return wizardPrefix + action + "|" + w.Kind + "|" + w.Activity + "|" + w.Role
}

func (w wizardState) ready() bool { return w.Activity != "" && w.Role != "" }

func parseWizardID(customID string) (string, wizardState, bool) {
	if !strings.HasPrefix(customID, wizardPrefix) {
		return "", wizardState{}, false
	}
	parts := strings.Split(strings.TrimPrefix(customID, wizardPrefix), "|")
	if len(parts) != 4 {
		return "", wizardState{}, false
	}
	return parts[0], wizardState{Kind: parts[1], Activity: parts[2], Role: parts[3]}, true
}
