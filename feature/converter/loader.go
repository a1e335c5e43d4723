package converter

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the converter feature around a running session.
func NewFeature(svc *Service, wait time.Duration) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc, wait)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "converter"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the session behind the feature.
func (f *Feature) Service() *Service {
	return f.service
}
