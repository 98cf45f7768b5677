package report

import (
	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{
		ReportService: reportService,
	}
}

// ExportBatchReport godoc
// @Summary Download the audit workbook for a committed batch
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param batchId path string true "Batch ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/batches/{batchId}/report [get]
func (c *ReportController) ExportBatchReport(ctx *fiber.Ctx) error {
	data, filename, err := c.ReportService.ExportBatchReport(ctx.UserContext(), ctx.Params("batchId"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}
