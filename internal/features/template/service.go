package template

import (
	"context"
	"fmt"

	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	"github.com/d5/tengo/v2"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, tpl *ImportTemplate) error
	UpdateTemplate(ctx context.Context, id string, tpl *ImportTemplate) error
	GetTemplate(ctx context.Context, id string) (*ImportTemplate, error)
	ListTemplates(ctx context.Context, templateType string, operator string) ([]ImportTemplate, error)
}

type TemplateServiceImpl struct {
	TemplateRepo TemplateRepository
}

func NewTemplateService(templateRepo TemplateRepository) TemplateService {
	return &TemplateServiceImpl{
		TemplateRepo: templateRepo,
	}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, tpl *ImportTemplate) error {
	if tpl.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if tpl.TemplateType == "" {
		return fmt.Errorf("template_type is required")
	}
	return s.TemplateRepo.Create(ctx, tpl)
}

func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, id string, tpl *ImportTemplate) error {
	existing, err := s.TemplateRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	tpl.CreatedAt = existing.CreatedAt
	return s.TemplateRepo.Update(ctx, id, tpl)
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, id string) (*ImportTemplate, error) {
	return s.TemplateRepo.Get(ctx, id)
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, templateType string, operator string) ([]ImportTemplate, error) {
	return s.TemplateRepo.FindByType(ctx, templateType, operator)
}

// Apply fills template defaults into every row, touching only fields that are
// currently blank. Filled fields are tracked as system proposals, never user
// overrides, and validation is re-run per row. The input rows are not mutated.
// The second return is the number of rows that received at least one fill.
func Apply(tpl *ImportTemplate, entityType registry.EntityType, rows []reconcile.Row) ([]reconcile.Row, int, error) {
	out := make([]reconcile.Row, len(rows))
	touched := 0
	for i, row := range rows {
		filled := row.Clone()
		wrote := false

		for field, def := range tpl.Defaults {
			if !reconcile.IsBlank(filled.Data[field]) {
				continue
			}
			value, err := resolveDefault(def, filled.Data)
			if err != nil {
				return nil, 0, fmt.Errorf("default for %s: %w", field, err)
			}
			if reconcile.IsBlank(value) {
				continue
			}
			filled = reconcile.ApplyEdit(filled, entityType, field, value, reconcile.SourceSystem, nil)
			wrote = true
		}

		// Template-level conveniences fill their specific field when still empty
		for field, value := range map[string]string{
			"aircraft_template": tpl.AircraftTemplate,
			"aircraft_model":    tpl.ModelCode,
			"operator_code":     tpl.OperatorCode,
		} {
			if value != "" && reconcile.IsBlank(filled.Data[field]) {
				filled = reconcile.ApplyEdit(filled, entityType, field, value, reconcile.SourceSystem, nil)
				wrote = true
			}
		}

		if wrote {
			touched++
		}
		out[i] = filled
	}
	return out, touched, nil
}

// resolveDefault evaluates a template default. Plain values pass through; a
// {"$expr": source} default runs as a tengo script with the row data bound to
// `row`, and the script assigns its result to `value`.
func resolveDefault(def interface{}, rowData map[string]interface{}) (interface{}, error) {
	expr, ok := exprSource(def)
	if !ok {
		return def, nil
	}

	script := tengo.NewScript([]byte(expr))
	if err := script.Add("row", rowData); err != nil {
		return nil, fmt.Errorf("failed to bind row: %w", err)
	}
	if err := script.Add("value", nil); err != nil {
		return nil, fmt.Errorf("failed to bind value: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("failed to run expression: %w", err)
	}

	return compiled.Get("value").Value(), nil
}

func exprSource(def interface{}) (string, bool) {
	m, ok := def.(map[string]interface{})
	if !ok {
		return "", false
	}
	src, ok := m["$expr"].(string)
	return src, ok && src != ""
}
