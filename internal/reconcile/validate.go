package reconcile

import "github.com/periljames/amo-portal-sub002/internal/registry"

// Validate applies entity-specific required-field rules. It never fails; it
// returns a possibly empty list of human-readable messages.
func Validate(entityType registry.EntityType, data map[string]interface{}) []string {
	var errs []string
	switch entityType {
	case registry.EntityComponent:
		if IsBlank(data["position"]) {
			errs = append(errs, "Position is required")
		}
	default:
		if IsBlank(data["serial_number"]) && IsBlank(data["registration"]) {
			errs = append(errs, "Serial number or registration is required")
		}
	}
	return errs
}
