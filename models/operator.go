package models

import "gorm.io/gorm"

// Operator is one integrated game operator. APIKey authenticates the caller,
// SecretKey signs request payloads for providers that require a signature.
type Operator struct {
	gorm.Model

	Code      string `gorm:"uniqueIndex;size:32" json:"code"`
	Provider  string `gorm:"index;size:16" json:"provider"` // "sab", "ors"
	APIKey    string `gorm:"uniqueIndex;size:128" json:"api_key"`
	SecretKey string `gorm:"size:128" json:"secret_key"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}
