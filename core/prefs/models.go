package prefs

import "time"

// Preference keys.
const (
	KeyRate            = "rate"
	KeyAmountA         = "amount_a"
	KeyAmountB         = "amount_b"
	KeyContractEnabled = "contract_enabled"
	KeyContractRef     = "contract_ref"
	KeyCacheHits       = "cache_hits"
	KeyCacheMisses     = "cache_misses"
)

// Preference is one persisted key/value pair.
type Preference struct {
	Key       string    `gorm:"column:key;primaryKey;size:64" json:"key"`
	Value     string    `gorm:"column:value;size:512" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by Preference.
func (Preference) TableName() string {
	return "preferences"
}
