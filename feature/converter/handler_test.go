package converter

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"payqr/core/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, r *fakeRenderer) *fiber.App {
	svc := startService(t, Options{Renderer: r, Cache: cache.New(4)})
	app := fiber.New()
	require.NoError(t, NewFeature(svc, time.Second).Load(app))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHandler_ConvertFlow(t *testing.T) {
	app := setupTestApp(t, &fakeRenderer{})

	status, _ := do(t, app, "PUT", "/converter/fields/rate", `{"value": 11.65}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := do(t, app, "PUT", "/converter/fields/amount_a", `{"value": 1000}`)
	require.Equal(t, fiber.StatusOK, status)

	var v View
	require.NoError(t, json.Unmarshal(body, &v))
	require.NotNil(t, v.Triple)
	assert.InDelta(t, 11650, v.Triple.AmountB, 1e-6)
	assert.Equal(t, "fast_payment", v.Format)

	req := httptest.NewRequest("GET", "/converter/qr", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	status, body = do(t, app, "POST", "/converter/format/next", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "bank_transfer", v.Format)
	assert.True(t, strings.HasPrefix(v.Payload, "BT01|"))

	status, body = do(t, app, "PUT", "/converter/contract", `{"enabled": true, "reference": "KX-1"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &v))
	assert.True(t, v.Contract.Enabled)
	assert.Contains(t, v.Payload, "Payment under contract KX-1.")

	status, body = do(t, app, "GET", "/converter", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "amount_a", v.Edited)
}

func TestHandler_InvalidInput(t *testing.T) {
	app := setupTestApp(t, &fakeRenderer{})

	status, body := do(t, app, "PUT", "/converter/fields/rate", `{"value": -1}`)
	require.Equal(t, fiber.StatusOK, status)

	var v View
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, ReasonInvalid, v.Reason)
	assert.NotEmpty(t, v.Problems)

	status, _ = do(t, app, "GET", "/converter/qr", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	// Clearing the field is allowed
	status, body = do(t, app, "PUT", "/converter/fields/rate", `{"value": null}`)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, ReasonInsufficient, v.Reason)
	assert.Nil(t, v.Inputs.Rate)
}

func TestHandler_BadRequests(t *testing.T) {
	app := setupTestApp(t, &fakeRenderer{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"Unknown Field", "PUT", "/converter/fields/price", `{"value": 1}`},
		{"None Field", "PUT", "/converter/fields/none", `{"value": 1}`},
		{"Bad Field Body", "PUT", "/converter/fields/rate", `{"value": "x"}`},
		{"Bad Contract Body", "PUT", "/converter/contract", `{"enabled": "maybe"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Contains(t, string(body), "error")
		})
	}
}

func TestHandler_RenderFailure(t *testing.T) {
	r := &fakeRenderer{}
	r.set(nil, true)
	app := setupTestApp(t, r)

	do(t, app, "PUT", "/converter/fields/rate", `{"value": 2}`)
	do(t, app, "PUT", "/converter/fields/amount_a", `{"value": 5}`)

	status, _ := do(t, app, "GET", "/converter/qr", "")
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestHandler_Cache(t *testing.T) {
	app := setupTestApp(t, &fakeRenderer{})

	do(t, app, "PUT", "/converter/fields/rate", `{"value": 2}`)
	do(t, app, "PUT", "/converter/fields/amount_a", `{"value": 5}`)
	status, _ := do(t, app, "GET", "/converter/qr", "")
	require.Equal(t, fiber.StatusOK, status)

	status, body := do(t, app, "GET", "/converter/cache", "")
	require.Equal(t, fiber.StatusOK, status)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 4, stats.Capacity)

	status, body = do(t, app, "DELETE", "/converter/cache", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, cache.Stats{Capacity: 4}, stats)
}
