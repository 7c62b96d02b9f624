package models

import "time"

// User mirrors an account held by the external Authorizer identity service.
// The row is upserted from the validated session profile on the first
// authenticated request; Nickname is the only locally mutable field.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	NickName  string    `gorm:"size:255" json:"nickName"`
	Image     string    `gorm:"size:255" json:"image"`
	Username  string    `gorm:"size:255" json:"username"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
