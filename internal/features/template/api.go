package template

import (
	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	controller *TemplateController
	config     *config.Config
}

func NewTemplateApi(controller *TemplateController, config *config.Config) *TemplateApi {
	return &TemplateApi{
		controller: controller,
		config:     config,
	}
}

func (h *TemplateApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Get("/api/import/templates", auth, h.controller.ListTemplates)
	app.Post("/api/import/templates", auth, h.controller.CreateTemplate)
	app.Get("/api/import/templates/:id", auth, h.controller.GetTemplate)
	app.Put("/api/import/templates/:id", auth, h.controller.UpdateTemplate)
}
