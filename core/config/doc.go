// Package config provides configuration management for payqr.
//
// It uses Viper to read environment variables, optionally seeded from a .env
// file via godotenv. Defaults come from the `default` struct tags of each
// section, so every key is registered even when nothing sets it.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown bound
//   - Storage: S3/MinIO credentials and the gallery bucket
//   - Log: logging level and format
//   - Database: preference store driver and connection
//   - Render: QR size, recovery level and render timeout
//   - Cache: artifact cache capacity
//   - Prefs: counter flush interval
//   - Payee: the payment profile written into every payload
//   - Gallery: object key prefix for saved images
//
// Nested keys map to upper-case environment names, e.g. PAYEE_INN or
// RENDER_TIMEOUT_SECONDS.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
