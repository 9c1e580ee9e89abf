package model

import "time"

// Preference is a single key-value setting
type Preference struct {
	Key       string    `gorm:"primaryKey;column:pref_key;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SchemaVersion records an applied migration
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time `gorm:"not null"`
}
