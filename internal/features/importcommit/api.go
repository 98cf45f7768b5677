package importcommit

import (
	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CommitApi struct {
	controller *CommitController
	config     *config.Config
}

func NewCommitApi(controller *CommitController, config *config.Config) *CommitApi {
	return &CommitApi{
		controller: controller,
		config:     config,
	}
}

func (h *CommitApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/import/preview/:id/commit", auth, h.controller.Commit)
	app.Get("/api/import/batches", auth, h.controller.ListBatches)
	app.Get("/api/import/batches/:batchId", auth, h.controller.GetBatch)
}
