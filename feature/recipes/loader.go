package recipes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the recipes feature. streamTimeout bounds one bulk
// generation event stream.
func NewFeature(d Deps, streamTimeout time.Duration) *Feature {
	svc := NewService(d)
	return &Feature{service: svc, handler: NewHandler(svc, streamTimeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "recipes"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service for use outside HTTP.
func (f *Feature) Service() *Service {
	return f.service
}
