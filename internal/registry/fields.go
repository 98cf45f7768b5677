package registry

// EntityType identifies an importable master-data entity
type EntityType string

const (
	EntityAircraft  EntityType = "aircraft"
	EntityComponent EntityType = "component"
)

// Field is a logical attribute of an importable entity. Static, defined here, never mutated.
type Field struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Diffed bool   `json:"diffed"` // participates in original/proposed/final diffing
}

var aircraftFields = []Field{
	{Key: "serial_number", Label: "Serial Number", Diffed: true},
	{Key: "registration", Label: "Registration", Diffed: true},
	{Key: "aircraft_model", Label: "Aircraft Model", Diffed: true},
	{Key: "aircraft_template", Label: "Aircraft Template", Diffed: false},
	{Key: "operator_code", Label: "Operator", Diffed: true},
	{Key: "manufacture_date", Label: "Manufacture Date", Diffed: false},
	{Key: "total_hours", Label: "Total Hours", Diffed: true},
	{Key: "total_cycles", Label: "Total Cycles", Diffed: true},
	{Key: "engine_hours", Label: "Engine Hours", Diffed: true},
	{Key: "apu_hours", Label: "APU Hours", Diffed: true},
	{Key: "last_inspection_date", Label: "Last Inspection", Diffed: true},
	{Key: "next_inspection_due", Label: "Next Inspection Due", Diffed: true},
	{Key: "base_location", Label: "Base Location", Diffed: false},
	{Key: "status", Label: "Status", Diffed: false},
}

var componentFields = []Field{
	{Key: "position", Label: "Position", Diffed: true},
	{Key: "part_number", Label: "Part Number", Diffed: true},
	{Key: "serial_number", Label: "Serial Number", Diffed: true},
	{Key: "description", Label: "Description", Diffed: false},
	{Key: "installed_date", Label: "Installed Date", Diffed: true},
	{Key: "tsn_hours", Label: "Time Since New", Diffed: true},
	{Key: "csn_cycles", Label: "Cycles Since New", Diffed: true},
	{Key: "tso_hours", Label: "Time Since Overhaul", Diffed: true},
	{Key: "cso_cycles", Label: "Cycles Since Overhaul", Diffed: true},
	{Key: "condition", Label: "Condition", Diffed: false},
}

var labels = buildLabelIndex()

func buildLabelIndex() map[string]string {
	idx := make(map[string]string)
	for _, f := range aircraftFields {
		idx[f.Key] = f.Label
	}
	for _, f := range componentFields {
		idx[f.Key] = f.Label
	}
	return idx
}

// FieldsFor returns the ordered field list for an entity type
func FieldsFor(entityType EntityType) []Field {
	switch entityType {
	case EntityComponent:
		return componentFields
	default:
		return aircraftFields
	}
}

// DiffFieldsFor returns only the fields that participate in diff tracking
func DiffFieldsFor(entityType EntityType) []Field {
	var out []Field
	for _, f := range FieldsFor(entityType) {
		if f.Diffed {
			out = append(out, f)
		}
	}
	return out
}

// LabelOf returns the display label for a field key, falling back to the key itself
func LabelOf(key string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return key
}

// IsDiffed reports whether a field key is diff-tracked for the entity type
func IsDiffed(entityType EntityType, key string) bool {
	for _, f := range FieldsFor(entityType) {
		if f.Key == key {
			return f.Diffed
		}
	}
	return false
}
