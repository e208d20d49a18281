package domain

import "math"

type Skill string

const (
	SkillOverall   Skill = "overall"
	SkillAttack    Skill = "attack"
	SkillDefence   Skill = "defence"
	SkillStrength  Skill = "strength"
	SkillHitpoints Skill = "hitpoints"
	SkillRanged    Skill = "ranged"
	SkillPrayer    Skill = "prayer"
	SkillMagic     Skill = "magic"
)

// SkillOrder es el orden de las primeras líneas del feed index_lite.
var SkillOrder = []Skill{
	SkillOverall, SkillAttack, SkillDefence, SkillStrength,
	SkillHitpoints, SkillRanged, SkillPrayer, SkillMagic,
	"cooking", "woodcutting", "fletching", "fishing", "firemaking",
	"crafting", "smithing", "mining", "herblore", "agility", "thieving",
	"slayer", "farming", "runecraft", "hunter", "construction",
}

// SkillStat es una línea "rank,level,xp".
type SkillStat struct {
	Rank  int64 `json:"rank"`
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
}

type Hiscore struct {
	RSN    string              `json:"rsn"`
	Skills map[Skill]SkillStat `json:"skills"`
}

// Levels aplana el hiscore a skill -> level.
func (h Hiscore) Levels() map[Skill]int {
	out := make(map[Skill]int, len(h.Skills))
	for k, v := range h.Skills {
		out[k] = v.Level
	}
	return out
}

// CombatLevel devuelve el nivel de combate redondeado a 2 decimales.
// ok=false si falta alguno de los niveles de combate.
func CombatLevel(levels map[Skill]int) (float64, bool) {
	get := func(s Skill) (float64, bool) {
		v, ok := levels[s]
		if !ok || v <= 0 {
			return 0, false
		}
		return float64(v), true
	}
	var lv [7]float64
	for i, s := range []Skill{SkillAttack, SkillStrength, SkillDefence, SkillHitpoints, SkillPrayer, SkillRanged, SkillMagic} {
		v, ok := get(s)
		if !ok {
			return 0, false
		}
		lv[i] = v
	}
	att, str, def, hp, pray, rng, mag := lv[0], lv[1], lv[2], lv[3], lv[4], lv[5], lv[6]

	base := 0.25 * (def + hp + pray/2)
	melee := 0.325 * (att + str)
	ranged := 0.325 * rng * 1.5
	magic := 0.325 * mag * 1.5
	res := base + math.Max(melee, math.Max(ranged, magic))
	return math.Round(res*100) / 100, true
}
