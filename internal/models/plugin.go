package models

import (
	"time"

	"gorm.io/datatypes"
)

// Plugin is a catalog entry pointing at externally hosted config and readme
// documents for a third-party overlay extension. The plugin row never stores
// a score; vote aggregates are computed at query time from the votes table.
type Plugin struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	AppConfig   string         `gorm:"type:text" json:"appConfig"`
	ReadMe      string         `gorm:"type:text" json:"readMe"`
	Categories  datatypes.JSON `gorm:"type:json" json:"categories"`
	Status      string         `gorm:"size:255" json:"status"`
	Disabled    bool           `json:"disabled"`
	CreatedByID string         `gorm:"type:char(36);not null;index" json:"createdById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Metadata []PluginMetadata `gorm:"foreignKey:PluginID" json:"metadata,omitempty"`
}

// PluginMetadata is a typed label/value row attached to a plugin.
// Type is "Support" (value must be a URL) or "Info" (free text).
// A plugin cannot carry two entries with the same name.
type PluginMetadata struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PluginID    uint64    `gorm:"not null;uniqueIndex:idx_metadata_plugin_name" json:"pluginId"`
	CreatedByID string    `gorm:"type:char(36);not null" json:"createdById"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:idx_metadata_plugin_name" json:"name"`
	Value       string    `gorm:"type:text" json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName overrides the table name for Plugin
func (Plugin) TableName() string {
	return "plugins"
}

// TableName overrides the table name for PluginMetadata
func (PluginMetadata) TableName() string {
	return "metadata"
}
