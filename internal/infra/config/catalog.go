package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Option es una entrada seleccionable (actividad o rol).
type Option struct {
	Label string `yaml:"label"`
	Emoji string `yaml:"emoji,omitempty"`
}

// Catalog lista las actividades por categoría y los roles válidos.
type Catalog struct {
	Raids  []Option `yaml:"raids"`
	Bosses []Option `yaml:"bosses"`
	Events []Option `yaml:"events"`
	Roles  []Option `yaml:"roles"`
}

// LoadCatalog lee path o, si está vacío, el catálogo embebido.
func LoadCatalog(path string) (Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog: %w", err)
		}
		raw = b
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	if len(c.Roles) == 0 {
		return Catalog{}, fmt.Errorf("catalog: no roles")
	}
	if len(c.Raids)+len(c.Bosses)+len(c.Events) == 0 {
		return Catalog{}, fmt.Errorf("catalog: no activities")
	}
	// discord acepta hasta 25 opciones por select
	for name, list := range map[string][]Option{"raids": c.Raids, "bosses": c.Bosses, "events": c.Events, "roles": c.Roles} {
		if len(list) > 25 {
			return Catalog{}, fmt.Errorf("catalog: %s has %d entries (max 25)", name, len(list))
		}
	}
	sortByLabel(c.Raids)
	sortByLabel(c.Bosses)
	return c, nil
}

// Kind devuelve las actividades de una categoría ("raid", "boss", "event").
func (c Catalog) Kind(kind string) []Option {
	switch kind {
	case "raid":
		return c.Raids
	case "boss":
		return c.Bosses
	case "event":
		return c.Events
	}
	return nil
}

// HasActivity / HasRole validan valores que vienen de la web.
func (c Catalog) HasActivity(label string) bool {
	for _, list := range [][]Option{c.Raids, c.Bosses, c.Events} {
		if find(list, label) {
			return true
		}
	}
	return false
}

func (c Catalog) HasRole(label string) bool { return find(c.Roles, label) }

// RoleEmoji devuelve el emoji del rol o "" si no tiene.
func (c Catalog) RoleEmoji(label string) string {
	for _, o := range c.Roles {
		if o.Label == label {
			return o.Emoji
		}
	}
	return ""
}

func find(list []Option, label string) bool {
	for _, o := range list {
		if o.Label == label {
			return true
		}
	}
	return false
}

func sortByLabel(list []Option) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Label < list[j].Label })
}
