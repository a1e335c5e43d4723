package loader_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"payqr/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	if s.err != nil {
		return s.err
	}
	app.Get("/"+s.name, func(c *fiber.Ctx) error { return c.SendString(s.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()
	on := &stubFeature{name: "on", enabled: true}
	off := &stubFeature{name: "off"}

	mgr := loader.NewManager()
	mgr.Register(on)
	mgr.Register(off)
	require.NoError(t, mgr.LoadAll(app))

	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Len(t, mgr.Features(), 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/on", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/off", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestManager_LoadAllErrors(t *testing.T) {
	t.Run("LoadFailure", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})
		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, `failed to load feature "broken"`)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "twin", enabled: true})
		mgr.Register(&stubFeature{name: "twin", enabled: true})
		assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
	})
}
