package models

import "gorm.io/gorm"

// Player is created out-of-band by the back office; the seamless core only
// ever reads it.
type Player struct {
	gorm.Model

	Username string `gorm:"uniqueIndex;size:64" json:"username"` // external username per provider namespace
	PlayID   string `gorm:"uniqueIndex;size:32" json:"play_id"`  // internal wallet identity
	Currency string `gorm:"size:8" json:"currency"`
	WebID    int    `json:"web_id"` // sub-account slot di wallet
	Token    string `gorm:"size:128" json:"token"`

	WalletAgent string `gorm:"size:32" json:"wallet_agent"`
	WalletKey   string `gorm:"size:128" json:"wallet_key"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}
