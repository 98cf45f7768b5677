package template

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportTemplate is a named, persisted mapping of file columns to fields plus
// default values and target classification. Its lifecycle is independent of any
// one preview session.
//
// A default value of the shape {"$expr": "<tengo source>"} is evaluated against
// the row at apply time; the script must assign the fill value to `value`.
type ImportTemplate struct {
	ID               primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name             string                 `json:"name" bson:"name"`
	TemplateType     string                 `json:"template_type" bson:"template_type"` // aircraft | component
	Operator         string                 `json:"operator,omitempty" bson:"operator,omitempty"`
	ColumnMapping    map[string]string      `json:"column_mapping,omitempty" bson:"column_mapping,omitempty"`
	Defaults         map[string]interface{} `json:"defaults,omitempty" bson:"defaults,omitempty"`
	AircraftTemplate string                 `json:"aircraft_template,omitempty" bson:"aircraft_template,omitempty"`
	ModelCode        string                 `json:"model_code,omitempty" bson:"model_code,omitempty"`
	OperatorCode     string                 `json:"operator_code,omitempty" bson:"operator_code,omitempty"`
	CreatedAt        time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at" bson:"updated_at"`
}
