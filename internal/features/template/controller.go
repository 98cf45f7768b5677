package template

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

type TemplateController struct {
	TemplateService TemplateService
}

func NewTemplateController(templateService TemplateService) *TemplateController {
	return &TemplateController{
		TemplateService: templateService,
	}
}

// TemplateRequest is the wire shape for create/update. Defaults may arrive as
// an object or as a JSON-encoded string (form editors submit the latter).
type TemplateRequest struct {
	Name             string            `json:"name"`
	TemplateType     string            `json:"template_type"`
	ColumnMapping    map[string]string `json:"column_mapping"`
	Defaults         json.RawMessage   `json:"defaults"`
	AircraftTemplate string            `json:"aircraft_template"`
	ModelCode        string            `json:"model_code"`
	OperatorCode     string            `json:"operator_code"`
}

func (r *TemplateRequest) toModel(operator string) (*ImportTemplate, error) {
	tpl := &ImportTemplate{
		Name:             r.Name,
		TemplateType:     r.TemplateType,
		Operator:         operator,
		ColumnMapping:    r.ColumnMapping,
		AircraftTemplate: r.AircraftTemplate,
		ModelCode:        r.ModelCode,
		OperatorCode:     r.OperatorCode,
	}
	if len(r.Defaults) > 0 {
		defaults, err := parseDefaults(r.Defaults)
		if err != nil {
			return nil, err
		}
		tpl.Defaults = defaults
	}
	return tpl, nil
}

// parseDefaults accepts {"field": value} directly or the same object wrapped in
// a JSON string
func parseDefaults(raw json.RawMessage) (map[string]interface{}, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		raw = json.RawMessage(asString)
	}
	var defaults map[string]interface{}
	if err := json.Unmarshal(raw, &defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// ListTemplates godoc
// @Summary List import templates
// @Tags templates
// @Produce json
// @Param template_type query string false "aircraft or component"
// @Success 200 {array} ImportTemplate
// @Router /api/import/templates [get]
func (c *TemplateController) ListTemplates(ctx *fiber.Ctx) error {
	operator, _ := ctx.Locals("operator").(string)

	templates, err := c.TemplateService.ListTemplates(ctx.UserContext(), ctx.Query("template_type"), operator)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"templates": templates})
}

// GetTemplate godoc
// @Summary Fetch one import template
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} ImportTemplate
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/templates/{id} [get]
func (c *TemplateController) GetTemplate(ctx *fiber.Ctx) error {
	tpl, err := c.TemplateService.GetTemplate(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	return ctx.JSON(tpl)
}

// CreateTemplate godoc
// @Summary Create an import template
// @Description Rejects the request when the defaults payload is not valid JSON
// @Tags templates
// @Accept json
// @Produce json
// @Success 201 {object} ImportTemplate
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/templates [post]
func (c *TemplateController) CreateTemplate(ctx *fiber.Ctx) error {
	var req TemplateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	operator, _ := ctx.Locals("operator").(string)
	tpl, err := req.toModel(operator)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "defaults must be valid JSON"})
	}

	if err := c.TemplateService.CreateTemplate(ctx.UserContext(), tpl); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(tpl)
}

// UpdateTemplate godoc
// @Summary Update an import template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} ImportTemplate
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/templates/{id} [put]
func (c *TemplateController) UpdateTemplate(ctx *fiber.Ctx) error {
	var req TemplateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	operator, _ := ctx.Locals("operator").(string)
	tpl, err := req.toModel(operator)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "defaults must be valid JSON"})
	}

	if err := c.TemplateService.UpdateTemplate(ctx.UserContext(), ctx.Params("id"), tpl); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tpl)
}
