package converter

import (
	"context"
	"errors"
	"time"

	"payqr/core/logger"
	"payqr/core/payload"
	"payqr/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FieldRequest is the body of a field edit. A null value clears the field.
type FieldRequest struct {
	Value *float64 `json:"value"`
}

// Handler handles HTTP requests for the converter.
type Handler struct {
	service *Service
	wait    time.Duration
}

// NewHandler creates a new HTTP handler. wait bounds how long the QR endpoint
// waits for an in-flight render.
func NewHandler(service *Service, wait time.Duration) *Handler {
	if wait <= 0 {
		wait = 30 * time.Second
	}
	return &Handler{service: service, wait: wait}
}

// RegisterRoutes registers the converter routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/converter")
	group.Get("/", h.HandleGetView)
	group.Put("/fields/:field", h.HandleEditField)
	group.Put("/contract", h.HandleSetContract)
	group.Post("/format/next", h.HandleNextFormat)
	group.Get("/qr", h.HandleGetQR)
	group.Get("/cache", h.HandleCacheStats)
	group.Delete("/cache", h.HandleClearCache)
}

// HandleGetView returns the current converter state.
// @Summary Get Converter View
// @Description Returns inputs, the reconciled triple, the payload text and the display status.
// @Tags converter
// @Produce json
// @Success 200 {object} converter.View "Current View"
// @Failure 503 {object} map[string]string "Session Stopped"
// @Router /converter [get]
func (h *Handler) HandleGetView(c *fiber.Ctx) error {
	v, err := h.service.View(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleEditField applies a user edit.
// @Summary Edit Field
// @Description Sets rate, amount_a or amount_b and reconciles the others. Invalid input clears the display and lists every problem.
// @Tags converter
// @Accept json
// @Produce json
// @Param field path string true "Field (rate, amount_a, amount_b)"
// @Param body body converter.FieldRequest true "New value, null to clear"
// @Success 200 {object} converter.View "Updated View"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /converter/fields/{field} [put]
func (h *Handler) HandleEditField(c *fiber.Ctx) error {
	field, err := reconcile.ParseField(c.Params("field"))
	if err != nil || field == reconcile.FieldNone {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "field must be one of rate, amount_a, amount_b",
		})
	}

	var req FieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	v, err := h.service.Edit(c.UserContext(), field, req.Value)
	if err != nil {
		return h.fail(c, err)
	}

	if v.Reason != "" {
		logger.WithRayID(h.service.logger, c).Debug("Display cleared",
			zap.String("reason", v.Reason), zap.Strings("problems", v.Problems))
	}
	return c.JSON(v)
}

// HandleSetContract updates the contract clause.
// @Summary Set Contract
// @Description Enables or disables the contract clause of the payment purpose.
// @Tags converter
// @Accept json
// @Produce json
// @Param body body payload.Contract true "Contract"
// @Success 200 {object} converter.View "Updated View"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /converter/contract [put]
func (h *Handler) HandleSetContract(c *fiber.Ctx) error {
	var req payload.Contract
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	v, err := h.service.SetContract(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleNextFormat cycles the payload format.
// @Summary Next Format
// @Description Cycles fast_payment, bank_transfer, plain_text.
// @Tags converter
// @Produce json
// @Success 200 {object} converter.View "Updated View"
// @Router /converter/format/next [post]
func (h *Handler) HandleNextFormat(c *fiber.Ctx) error {
	v, err := h.service.NextFormat(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleGetQR returns the rendered PNG.
// @Summary Get QR Image
// @Description Returns the PNG for the current inputs, waiting for an in-flight render.
// @Tags converter
// @Produce png
// @Success 200 {file} binary "QR image"
// @Failure 404 {object} map[string]string "Nothing To Show"
// @Failure 502 {object} map[string]string "Render Failed"
// @Failure 504 {object} map[string]string "Render Timed Out"
// @Router /converter/qr [get]
func (h *Handler) HandleGetQR(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.wait)
	defer cancel()

	img, err := h.service.Artifact(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img)
}

// HandleCacheStats returns cache counters.
// @Summary Cache Statistics
// @Tags converter
// @Produce json
// @Success 200 {object} cache.Stats "Statistics"
// @Router /converter/cache [get]
func (h *Handler) HandleCacheStats(c *fiber.Ctx) error {
	return c.JSON(h.service.CacheStats())
}

// HandleClearCache empties the cache.
// @Summary Clear Cache
// @Description Maintenance action: drops every cached artifact and resets the counters.
// @Tags converter
// @Produce json
// @Success 200 {object} cache.Stats "Statistics"
// @Router /converter/cache [delete]
func (h *Handler) HandleClearCache(c *fiber.Ctx) error {
	stats, err := h.service.ClearCache(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Artifact cache cleared")
	return c.JSON(stats)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNoArtifact):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrRenderFailed):
		status = fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	case errors.Is(err, ErrStopped):
		status = fiber.StatusServiceUnavailable
	}
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Converter request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
