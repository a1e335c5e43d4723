package config

import (
	"reflect"
	"strings"

	"payqr/core/cache"
	"payqr/core/database"
	"payqr/core/logger"
	"payqr/core/payload"
	"payqr/core/prefs"
	"payqr/core/render"
	"payqr/core/server"
	"payqr/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by the gallery.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the preference database.
	Database database.Config `mapstructure:"database"`
	// Render holds configuration for QR image rendering.
	Render render.Config `mapstructure:"render"`
	// Cache holds configuration for the artifact cache.
	Cache cache.Config `mapstructure:"cache"`
	// Prefs holds configuration for persisted preferences.
	Prefs prefs.Config `mapstructure:"prefs"`
	// Payee is the fixed payment profile encoded into every payload.
	Payee payload.Profile `mapstructure:"payee"`
	// Gallery holds configuration for saved images.
	Gallery Gallery `mapstructure:"gallery"`
}

// Gallery holds configuration for the save-to-gallery feature.
type Gallery struct {
	// Prefix is the object key prefix under which images are saved.
	Prefix string `mapstructure:"prefix" default:"gallery"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
