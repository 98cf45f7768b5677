package preview

import (
	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PreviewApi struct {
	controller *PreviewController
	config     *config.Config
}

func NewPreviewApi(controller *PreviewController, config *config.Config) *PreviewApi {
	return &PreviewApi{
		controller: controller,
		config:     config,
	}
}

func (h *PreviewApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/import/preview", auth, h.controller.UploadAndPreview)
	app.Post("/api/aircraft/:aircraftId/components/import/preview", auth, h.controller.UploadComponentPreview)

	app.Post("/api/import/preview/:id/reparse", auth, h.controller.Reparse)
	app.Get("/api/import/preview/:id/rows", auth, h.controller.GetRows)
	app.Put("/api/import/preview/:id/rows/:rowNumber", auth, h.controller.EditCell)
	app.Post("/api/import/preview/:id/rows/:rowNumber/approve", auth, h.controller.SetApproval)
	app.Post("/api/import/preview/:id/rows/:rowNumber/decision", auth, h.controller.ApplyDecision)
	app.Post("/api/import/preview/:id/template/:templateId", auth, h.controller.ApplyTemplate)
	app.Get("/api/import/preview/:id/summary", auth, h.controller.GetSummary)
	app.Delete("/api/import/preview/:id", auth, h.controller.Discard)
}
