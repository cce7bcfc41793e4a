package models

import "time"

// ConfigEntry is one persisted configurator value (specification, applied sections, ...).
type ConfigEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// PricingRuleSet is a published, immutable version of the pricing rule table.
type PricingRuleSet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   int       `gorm:"uniqueIndex;not null" json:"version"`
	Payload   string    `gorm:"type:text;not null" json:"-"`
	Author    string    `gorm:"size:255" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
