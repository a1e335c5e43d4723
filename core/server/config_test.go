package server_test

import (
	"testing"
	"time"

	"payqr/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Address())
}

func TestConfig_ShutdownTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Configured", 3, 3 * time.Second},
		{"Zero", 0, 10 * time.Second},
		{"Negative", -1, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ShutdownSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.ShutdownTimeout())
		})
	}
}

func TestConfig_Protected(t *testing.T) {
	assert.False(t, server.Config{}.Protected())
	assert.True(t, server.Config{ApiKey: "secret"}.Protected())
}
