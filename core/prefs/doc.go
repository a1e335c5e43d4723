// Package prefs persists the converter's user state between runs.
//
// Values live in a single key/value table managed through gorm: the three
// optional numeric inputs, the contract toggle and reference, and the cache
// hit/miss counters. Inputs are written on every edit. Counters change on every
// lookup, so they are flushed on an interval by RunCounterFlusher instead.
//
// Persistence is best effort. Load never fails: a broken or missing database
// yields the defaults and a warning. A Store built with a nil *gorm.DB is a
// no-op, which is how the converter runs when no database is configured.
package prefs
