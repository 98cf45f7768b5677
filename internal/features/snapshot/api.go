package snapshot

import (
	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SnapshotApi struct {
	controller *SnapshotController
	config     *config.Config
}

func NewSnapshotApi(controller *SnapshotController, config *config.Config) *SnapshotApi {
	return &SnapshotApi{
		controller: controller,
		config:     config,
	}
}

func (h *SnapshotApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Get("/api/import/snapshots", auth, h.controller.ListSnapshots)
	app.Post("/api/import/snapshots/:id/restore", auth, h.controller.RestoreSnapshot)
	app.Post("/api/import/snapshots/:id/reapply", auth, h.controller.ReapplySnapshot)
}
