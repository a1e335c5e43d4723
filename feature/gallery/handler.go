package gallery

import (
	"errors"
	"io"

	"payqr/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the gallery.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the gallery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/gallery")
	group.Post("/", h.HandleSave)
	group.Get("/", h.HandleList)
	group.Delete("/", h.HandlePurge)
	group.Get("/status", h.HandleStatus)
	group.Get("/objects/*", h.HandleGet)
	group.Delete("/objects/*", h.HandleRemove)
}

// HandleSave saves the current QR image.
// @Summary Save To Gallery
// @Description Uploads the current QR image to object storage. Only one save runs at a time.
// @Tags gallery
// @Produce json
// @Success 201 {object} gallery.SaveResult "Saved"
// @Failure 404 {object} map[string]string "Nothing To Save"
// @Failure 409 {object} map[string]string "Save In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /gallery [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Save(c.UserContext())
	switch {
	case errors.Is(err, ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoImage):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Gallery save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleStatus reports whether a save is running.
// @Summary Gallery Status
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]bool "Busy Flag"
// @Router /gallery/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"busy": h.service.Busy()})
}

// HandleList lists saved images.
// @Summary List Gallery
// @Tags gallery
// @Produce json
// @Success 200 {array} gallery.Item "Saved Images"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /gallery [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Gallery listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleGet streams one saved image.
// @Summary Get Saved Image
// @Tags gallery
// @Produce png
// @Param key path string true "Object key"
// @Success 200 {file} binary "PNG"
// @Failure 400 {object} map[string]string "Invalid Key"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /gallery/objects/{key} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key := c.Params("*")

	obj, err := h.service.Get(c.UserContext(), key)
	if err != nil {
		return h.objectError(c, err)
	}
	defer obj.Close()

	// minio reports a missing object on first read, not on open
	data, err := io.ReadAll(obj)
	if err != nil {
		return h.objectError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// HandleRemove deletes one saved image.
// @Summary Remove Saved Image
// @Tags gallery
// @Param key path string true "Object key"
// @Success 204 "Removed"
// @Failure 400 {object} map[string]string "Invalid Key"
// @Router /gallery/objects/{key} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), c.Params("*")); err != nil {
		return h.objectError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePurge deletes every saved image.
// @Summary Purge Gallery
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]int "Removed Count"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /gallery [delete]
func (h *Handler) HandlePurge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	removed, err := h.service.Purge(c.UserContext())
	if err != nil {
		l.Error("Gallery purge incomplete", zap.Int("removed", removed), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   err.Error(),
			"removed": removed,
		})
	}
	l.Info("Gallery purged", zap.Int("removed", removed))
	return c.JSON(fiber.Map{"removed": removed})
}

func (h *Handler) objectError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrInvalidKey) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	logger.WithRayID(h.service.logger, c).Error("Gallery object request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
