package models

import "time"

// Vote is a single user's vote on a plugin. The (created_by_id, plugin_id)
// pair is unique: a vote is changed by overwriting the row's value, never by
// inserting a second row. Retracting a vote writes value 0, the row stays.
// The plugin foreign key cascades on delete so votes cannot outlive their
// plugin even when a deletion races a concurrent vote write.
type Vote struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedByID string    `gorm:"type:char(36);not null;uniqueIndex:idx_votes_user_plugin" json:"createdById"`
	PluginID    uint64    `gorm:"not null;uniqueIndex:idx_votes_user_plugin;index" json:"pluginId"`
	Value       int       `gorm:"type:smallint;not null" json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
	Plugin      *Plugin   `gorm:"foreignKey:PluginID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for Vote
func (Vote) TableName() string {
	return "votes"
}
