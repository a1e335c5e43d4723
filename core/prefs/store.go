package prefs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"payqr/core/payload"
	"payqr/core/reconcile"
	"payqr/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// State is everything restored at startup.
type State struct {
	Inputs   reconcile.Inputs
	Contract payload.Contract
	Hits     uint64
	Misses   uint64
}

// Store persists preferences in a gorm table.
// A Store without a database accepts every call and persists nothing.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store. db may be nil.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Enabled reports whether a database backs the store.
func (s *Store) Enabled() bool {
	return s.db != nil
}

// Migrate creates the preferences table if needed.
func (s *Store) Migrate() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.AutoMigrate(&Preference{}); err != nil {
		return fmt.Errorf("failed to migrate preferences: %w", err)
	}
	return nil
}

// Load reads the persisted state once. Any failure is logged and the defaults
// (everything absent, counters zero) are returned instead.
func (s *Store) Load(ctx context.Context) State {
	var st State
	if s.db == nil {
		return st
	}

	rows, err := s.All(ctx)
	if err != nil {
		s.logger.Warn("Failed to load preferences, using defaults", zap.Error(err))
		return st
	}

	for _, p := range rows {
		switch p.Key {
		case KeyRate:
			st.Inputs.Rate = optional(p.Value)
		case KeyAmountA:
			st.Inputs.AmountA = optional(p.Value)
		case KeyAmountB:
			st.Inputs.AmountB = optional(p.Value)
		case KeyContractEnabled:
			st.Contract.Enabled = utils.ToBool(p.Value)
		case KeyContractRef:
			st.Contract.Reference = p.Value
		case KeyCacheHits:
			st.Hits = counter(p.Value)
		case KeyCacheMisses:
			st.Misses = counter(p.Value)
		}
	}
	return st
}

// All returns every stored preference ordered by key.
func (s *Store) All(ctx context.Context) ([]Preference, error) {
	if s.db == nil {
		return nil, nil
	}
	var rows []Preference
	if err := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveInputs persists the user's inputs and contract settings.
func (s *Store) SaveInputs(ctx context.Context, in reconcile.Inputs, c payload.Contract) error {
	return s.upsert(ctx, map[string]string{
		KeyRate:            formatOptional(in.Rate),
		KeyAmountA:         formatOptional(in.AmountA),
		KeyAmountB:         formatOptional(in.AmountB),
		KeyContractEnabled: strconv.FormatBool(c.Enabled),
		KeyContractRef:     c.Reference,
	})
}

// SaveCounters persists the cache hit and miss counters.
func (s *Store) SaveCounters(ctx context.Context, hits, misses uint64) error {
	return s.upsert(ctx, map[string]string{
		KeyCacheHits:   strconv.FormatUint(hits, 10),
		KeyCacheMisses: strconv.FormatUint(misses, 10),
	})
}

// ResetCounters zeroes the persisted cache counters.
func (s *Store) ResetCounters(ctx context.Context) error {
	return s.SaveCounters(ctx, 0, 0)
}

func (s *Store) upsert(ctx context.Context, values map[string]string) error {
	if s.db == nil {
		return nil
	}

	now := time.Now()
	rows := make([]Preference, 0, len(values))
	for k, v := range values {
		rows = append(rows, Preference{Key: k, Value: v, UpdatedAt: now})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func optional(s string) *float64 {
	if s == "" {
		return nil
	}
	f, ok := utils.ToFloat(s)
	if !ok {
		return nil
	}
	return &f
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return utils.FormatFloat(*v)
}

func counter(s string) uint64 {
	n, ok := utils.ToUint64(s)
	if !ok {
		return 0
	}
	return n
}
