// Package catalog holds the fixed, process-wide list of skills users practise.
//
// The catalog is configuration, not data: it is loaded once at startup (the
// built-in default or a YAML/JSON file) and never written back.
package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sakif/skill-log/internal/model"
)

// Default is the catalog used when no file is configured.
var Default = New([]model.Category{
	{
		Name: "Базовые навыки",
		Skills: []string{
			"Анимагия",
			"Мортимагия",
			"Беспалочковая магия",
			"Невербальная магия",
			"Телесный патронус",
			"Трансгрессия",
		},
	},
	{
		Name: "Продвинутые навыки",
		Skills: []string{
			"Легилименция",
			"Окклюменция",
			"Артефакторика",
			"Магия пространства",
			"Самостоятельная левитация",
			"Некромантия",
		},
	},
	{
		Name: "Врождённые навыки",
		Skills: []string{
			"Метаморфомагия",
			"Провидение",
		},
	},
})

// Catalog is an immutable category → skill-name grouping.
type Catalog struct {
	categories []model.Category
	names      []string
	index      map[string]struct{}
}

// New builds a catalog. Skill names appearing in several categories are kept
// once, at their first position.
func New(categories []model.Category) *Catalog {
	c := &Catalog{index: make(map[string]struct{})}
	for _, cat := range categories {
		skills := append([]string(nil), cat.Skills...)
		c.categories = append(c.categories, model.Category{Name: cat.Name, Skills: skills})
		for _, name := range skills {
			if _, seen := c.index[name]; seen {
				continue
			}
			c.index[name] = struct{}{}
			c.names = append(c.names, name)
		}
	}
	return c
}

// Load reads a catalog file (any format viper understands) shaped as
//
//	categories:
//	  - name: Базовые навыки
//	    skills: [Анимагия, Трансгрессия]
//
// An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var file struct {
		Categories []model.Category `mapstructure:"categories"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("catalog: decoding %s: %w", path, err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("catalog: %s defines no categories", path)
	}

	return New(file.Categories), nil
}

// Categories returns a copy of the category list.
func (c *Catalog) Categories() []model.Category {
	out := make([]model.Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = model.Category{Name: cat.Name, Skills: append([]string(nil), cat.Skills...)}
	}
	return out
}

// Names returns every distinct skill name in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Contains reports whether name is a catalog skill.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}
