package snapshot

import (
	"github.com/gofiber/fiber/v2"
)

type SnapshotController struct {
	SnapshotService SnapshotService
}

func NewSnapshotController(snapshotService SnapshotService) *SnapshotController {
	return &SnapshotController{
		SnapshotService: snapshotService,
	}
}

type snapshotOpRequest struct {
	BatchID string `json:"batch_id"`
}

// ListSnapshots godoc
// @Summary List the undo history of a batch, newest first
// @Tags snapshots
// @Produce json
// @Param batch_id query string true "Batch ID"
// @Success 200 {object} SnapshotList
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/snapshots [get]
func (c *SnapshotController) ListSnapshots(ctx *fiber.Ctx) error {
	batchID := ctx.Query("batch_id")
	if batchID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "batch_id is required"})
	}

	list, err := c.SnapshotService.List(ctx.UserContext(), batchID)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(list)
}

// RestoreSnapshot godoc
// @Summary Undo a batch by restoring a snapshot
// @Tags snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} providers.RestoreResult
// @Failure 502 {object} map[string]interface{}
// @Router /api/import/snapshots/{id}/restore [post]
func (c *SnapshotController) RestoreSnapshot(ctx *fiber.Ctx) error {
	var req snapshotOpRequest
	_ = ctx.BodyParser(&req)

	result, err := c.SnapshotService.Restore(ctx.UserContext(), req.BatchID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// ReapplySnapshot godoc
// @Summary Redo a batch by reapplying a snapshot
// @Tags snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} providers.ReapplyResult
// @Failure 502 {object} map[string]interface{}
// @Router /api/import/snapshots/{id}/reapply [post]
func (c *SnapshotController) ReapplySnapshot(ctx *fiber.Ctx) error {
	var req snapshotOpRequest
	_ = ctx.BodyParser(&req)

	result, err := c.SnapshotService.Reapply(ctx.UserContext(), req.BatchID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}
