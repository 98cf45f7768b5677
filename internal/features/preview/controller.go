package preview

import (
	"github.com/periljames/amo-portal-sub002/internal/features/template"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	"github.com/gofiber/fiber/v2"
)

type PreviewController struct {
	PreviewService  PreviewService
	TemplateService template.TemplateService
}

func NewPreviewController(previewService PreviewService, templateService template.TemplateService) *PreviewController {
	return &PreviewController{
		PreviewService:  previewService,
		TemplateService: templateService,
	}
}

// SessionResponse is the wire shape for a session plus a materialized window
type SessionResponse struct {
	Session   *Session        `json:"session"`
	Rows      []reconcile.Row `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

type EditCellRequest struct {
	Field    string      `json:"field"`
	Value    interface{} `json:"value"`
	Decision *string     `json:"decision,omitempty"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

type DecisionRequest struct {
	Field    string      `json:"field"`
	Decision string      `json:"decision"`
	Value    interface{} `json:"value,omitempty"`
}

type ReparseRequest struct {
	OCRText string `json:"ocr_text"`
}

// UploadAndPreview godoc
// @Summary Upload an import file for reconciliation
// @Description Submit a spreadsheet/OCR file to the preview service and open a reconciliation session
// @Tags preview
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import File"
// @Param entity_type formData string false "aircraft or component"
// @Param batch_id formData string false "Reuse an existing batch id to share undo history"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/import/preview [post]
func (c *PreviewController) UploadAndPreview(ctx *fiber.Ctx) error {
	return c.uploadAndPreview(ctx, registry.EntityAircraft, "")
}

// UploadComponentPreview handles the component variant scoped to one aircraft
func (c *PreviewController) UploadComponentPreview(ctx *fiber.Ctx) error {
	aircraftID := ctx.Params("aircraftId")
	if aircraftID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "aircraft id is required"})
	}
	return c.uploadAndPreview(ctx, registry.EntityComponent, aircraftID)
}

func (c *PreviewController) uploadAndPreview(ctx *fiber.Ctx, entityType registry.EntityType, aircraftID string) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	operator, _ := ctx.Locals("operator").(string)

	sess, rows, err := c.PreviewService.CreateSession(ctx.UserContext(), CreateSessionInput{
		EntityType: entityType,
		AircraftID: aircraftID,
		Operator:   operator,
		Filename:   fileHeader.Filename,
		File:       file,
		BatchID:    ctx.FormValue("batch_id"),
	})
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(SessionResponse{Session: sess, Rows: rows, TotalRows: sess.TotalRows})
}

// Reparse godoc
// @Summary Re-parse corrected OCR text
// @Description Submit corrected OCR text as a new parse of the same logical batch
// @Tags preview
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/preview/{id}/reparse [post]
func (c *PreviewController) Reparse(ctx *fiber.Ctx) error {
	var req ReparseRequest
	if err := ctx.BodyParser(&req); err != nil || req.OCRText == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ocr_text is required"})
	}

	sess, rows, err := c.PreviewService.Reparse(ctx.UserContext(), ctx.Params("id"), req.OCRText)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(SessionResponse{Session: sess, Rows: rows, TotalRows: sess.TotalRows})
}

// GetRows godoc
// @Summary Fetch a window of preview rows
// @Tags preview
// @Produce json
// @Param id path string true "Session ID"
// @Param offset query int false "Row offset"
// @Param limit query int false "Window size"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/preview/{id}/rows [get]
func (c *PreviewController) GetRows(ctx *fiber.Ctx) error {
	offset := ctx.QueryInt("offset", 0)
	limit := ctx.QueryInt("limit", 100)

	rows, total, err := c.PreviewService.GetRows(ctx.UserContext(), ctx.Params("id"), offset, limit)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"rows": rows, "total_rows": total})
}

// EditCell godoc
// @Summary Edit one field of a preview row
// @Tags preview
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param rowNumber path int true "Row number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/preview/{id}/rows/{rowNumber} [put]
func (c *PreviewController) EditCell(ctx *fiber.Ctx) error {
	rowNumber, err := ctx.ParamsInt("rowNumber")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row number"})
	}

	var req EditCellRequest
	if err := ctx.BodyParser(&req); err != nil || req.Field == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field is required"})
	}

	var decision *reconcile.Decision
	if req.Decision != nil {
		d := reconcile.Decision(*req.Decision)
		decision = &d
	}

	row, err := c.PreviewService.EditCell(ctx.UserContext(), ctx.Params("id"), rowNumber, req.Field, req.Value, decision)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"row": row})
}

// SetApproval godoc
// @Summary Approve or reject a preview row
// @Description Approving a row with outstanding validation errors is a no-op
// @Tags preview
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param rowNumber path int true "Row number"
// @Success 200 {object} map[string]interface{}
// @Router /api/import/preview/{id}/rows/{rowNumber}/approve [post]
func (c *PreviewController) SetApproval(ctx *fiber.Ctx) error {
	rowNumber, err := ctx.ParamsInt("rowNumber")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row number"})
	}

	var req ApprovalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, err := c.PreviewService.SetApproval(ctx.UserContext(), ctx.Params("id"), rowNumber, req.Approved)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"row": row})
}

// ApplyDecision godoc
// @Summary Resolve a formula proposal on one field
// @Description accept writes the recomputed value, keep restores the uploaded value, override writes the supplied value
// @Tags preview
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param rowNumber path int true "Row number"
// @Success 200 {object} map[string]interface{}
// @Router /api/import/preview/{id}/rows/{rowNumber}/decision [post]
func (c *PreviewController) ApplyDecision(ctx *fiber.Ctx) error {
	rowNumber, err := ctx.ParamsInt("rowNumber")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row number"})
	}

	var req DecisionRequest
	if err := ctx.BodyParser(&req); err != nil || req.Field == "" || req.Decision == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field and decision are required"})
	}

	row, err := c.PreviewService.ApplyFormulaDecision(ctx.UserContext(), ctx.Params("id"), rowNumber, req.Field, reconcile.Decision(req.Decision), req.Value)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"row": row})
}

// ApplyTemplate godoc
// @Summary Apply a defaults template to all materialized rows
// @Description Fills only blank fields; disabled for windowed sessions
// @Tags preview
// @Produce json
// @Param id path string true "Session ID"
// @Param templateId path string true "Template ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/preview/{id}/template/{templateId} [post]
func (c *PreviewController) ApplyTemplate(ctx *fiber.Ctx) error {
	tpl, err := c.TemplateService.GetTemplate(ctx.UserContext(), ctx.Params("templateId"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	touched, err := c.PreviewService.ApplyTemplate(ctx.UserContext(), ctx.Params("id"), tpl)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"rows_touched": touched})
}

// GetSummary godoc
// @Summary Session summary counts
// @Description new/update/invalid counts plus the derived approved-row count
// @Tags preview
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/import/preview/{id}/summary [get]
func (c *PreviewController) GetSummary(ctx *fiber.Ctx) error {
	sess, err := c.PreviewService.GetSession(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	sess.Lock()
	defer sess.Unlock()

	return ctx.JSON(fiber.Map{
		"mode":           sess.Mode,
		"state":          sess.State,
		"batch_id":       sess.BatchID,
		"total_rows":     sess.TotalRows,
		"summary":        sess.DerivedSummary(),
		"approved_count": sess.ApprovedCount(),
		"last_error":     sess.LastError,
	})
}

// Discard godoc
// @Summary Abandon a preview session
// @Tags preview
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/import/preview/{id} [delete]
func (c *PreviewController) Discard(ctx *fiber.Ctx) error {
	c.PreviewService.DiscardSession(ctx.Params("id"))
	return ctx.JSON(fiber.Map{"message": "Session discarded"})
}
