package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Plugin lifecycle statuses
const (
	StatusInDevelopment = "In Development"
	StatusPublished     = "Published"
)

// Metadata entry types
const (
	MetadataTypeSupport = "Support"
	MetadataTypeInfo    = "Info"
)

// Cardinality limits for user submitted collections
const (
	MaxCategories = 10
	MaxMetadata   = 15
)

// Skills are the RS3 skill tags usable as plugin categories.
var Skills = []string{
	"Attack", "Constitution", "Strength", "Defence", "Ranged", "Prayer",
	"Magic", "Cooking", "Woodcutting", "Fletching", "Fishing", "Firemaking",
	"Crafting", "Smithing", "Mining", "Herblore", "Agility", "Thieving",
	"Slayer", "Farming", "Runecrafting", "Hunter", "Construction",
	"Summoning", "Dungeoneering", "Divination", "Invention", "Archaeology",
}

// TopicCategories are the non-skill category tags.
var TopicCategories = []string{
	"Combat", "Quests & Achievements", "D&D (Distractions & Diversions)",
	"Minigames", "Bossing / PvM", "Clue Scrolls & Treasure Hunter",
	"Merching / GE", "Map & Navigation", "Events & Seasonal",
	"Lore & Collections", "Clan Tools", "Friends & Groups",
	"Chat & Communication", "UI / HUD", "Timers & Alerts",
	"Inventory & Bank", "Performance & Tech", "Cosmetic / Fun",
	"Accessibility", "Developer / Debug",
}

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Skills)+len(TopicCategories))
	for _, s := range Skills {
		set[s] = struct{}{}
	}
	for _, c := range TopicCategories {
		set[c] = struct{}{}
	}
	return set
}()

// ValidCategory reports whether name belongs to the closed category enumeration.
func ValidCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}

// ValidStatus reports whether s is a known plugin lifecycle status.
func ValidStatus(s string) bool {
	return s == StatusInDevelopment || s == StatusPublished
}

// CategoriesJSON serializes a validated category list into the JSON column
// format. HTML escaping is off: tags like "Quests & Achievements" must be
// stored verbatim so the catalog's quoted-substring containment filter
// matches the column.
func CategoriesJSON(categories []string) (datatypes.JSON, error) {
	if categories == nil {
		categories = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(categories); err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}
	return datatypes.JSON(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// CategoriesFromJSON decodes the JSON column format back into a string list.
func CategoriesFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var categories []string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil
	}
	return categories
}
