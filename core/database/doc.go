// Package database opens the gorm connection used for persisted preferences.
//
// Three drivers are supported: sqlite (the default, a local file), mysql and
// postgres. The connection is optional for the converter; when Connect fails
// the application keeps running with in-memory state only.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Running without persisted preferences", zap.Error(err))
//	}
package database
