package importcommit

import (
	"github.com/gofiber/fiber/v2"
)

type CommitController struct {
	CommitService CommitService
}

func NewCommitController(commitService CommitService) *CommitController {
	return &CommitController{
		CommitService: commitService,
	}
}

// Commit godoc
// @Summary Commit the approved rows of a preview session
// @Description Applies every approved row transactionally. Retries reuse the session's batch id.
// @Tags commit
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} CommitOutcome
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/import/preview/{id}/commit [post]
func (c *CommitController) Commit(ctx *fiber.Ctx) error {
	outcome, err := c.CommitService.Commit(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		switch err {
		case ErrNoApprovedRows, ErrCommitInProgress:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return ctx.JSON(outcome)
}

// ListBatches godoc
// @Summary List recent import batches for the calling operator
// @Tags commit
// @Produce json
// @Success 200 {array} ImportBatch
// @Router /api/import/batches [get]
func (c *CommitController) ListBatches(ctx *fiber.Ctx) error {
	operator, _ := ctx.Locals("operator").(string)

	batches, err := c.CommitService.ListBatches(ctx.UserContext(), operator)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"batches": batches})
}

// GetBatch godoc
// @Summary Fetch one import batch record
// @Tags commit
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} ImportBatch
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/batches/{batchId} [get]
func (c *CommitController) GetBatch(ctx *fiber.Ctx) error {
	batch, err := c.CommitService.GetBatch(ctx.UserContext(), ctx.Params("batchId"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}
	return ctx.JSON(batch)
}
