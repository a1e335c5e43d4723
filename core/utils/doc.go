// Package utils provides loose value conversion helpers.
//
// Preferences are stored as text, so reading them back goes through ToFloat,
// ToUint64 and ToBool rather than ad hoc parsing at every call site.
package utils
