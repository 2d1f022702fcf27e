// Package entity defines the domain entities for the account feature.
package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account represents a registered website account.
// UsernameKey and Email are each unique across all accounts; the unique indexes
// below are the authoritative guard against concurrent duplicate signups.
type Account struct {
	// ID is the account's UUID, assigned by the registrar before insertion.
	ID string `gorm:"primaryKey;type:varchar(36)"`

	// Username is the public handle chosen at signup, stored as typed.
	Username string `gorm:"size:20;not null"`

	// UsernameKey is the lower-cased Username. Uniqueness is checked on it so that
	// "User1" and "user1" collide on every database, whatever the column collation.
	UsernameKey string `gorm:"column:username_key;uniqueIndex;size:20;not null"`

	// Email is stored lower-cased.
	Email string `gorm:"uniqueIndex;size:50;not null"`

	// PasswordHash is the bcrypt hash of the password. Never the plaintext.
	PasswordHash string `gorm:"column:password_hash;size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Account) TableName() string {
	return "accounts"
}

// BeforeSave keeps UsernameKey in step with Username.
func (a *Account) BeforeSave(*gorm.DB) error {
	a.UsernameKey = UsernameKey(a.Username)
	return nil
}

// UsernameKey returns the value usernames are compared by.
func UsernameKey(username string) string {
	return strings.ToLower(username)
}
