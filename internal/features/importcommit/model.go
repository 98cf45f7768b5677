package importcommit

import (
	"time"

	"github.com/periljames/amo-portal-sub002/internal/registry"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportBatch is the local bookkeeping record for one logical batch. The
// commit service owns the durable data and the snapshot history; this record
// exists for operator-facing batch listings and audit report exports.
type ImportBatch struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BatchID       string              `json:"batch_id" bson:"batch_id"`
	EntityType    registry.EntityType `json:"entity_type" bson:"entity_type"`
	AircraftID    string              `json:"aircraft_id,omitempty" bson:"aircraft_id,omitempty"`
	Operator      string              `json:"operator,omitempty" bson:"operator,omitempty"`
	SessionID     string              `json:"session_id" bson:"session_id"`
	PreviewID     string              `json:"preview_id,omitempty" bson:"preview_id,omitempty"`
	Mode          string              `json:"mode" bson:"mode"`
	ApprovedCount int                 `json:"approved_count" bson:"approved_count"`
	Created       int                 `json:"created" bson:"created"`
	Updated       int                 `json:"updated" bson:"updated"`
	Attempts      int                 `json:"attempts" bson:"attempts"`
	LastError     string              `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CommittedAt   time.Time           `json:"committed_at" bson:"committed_at"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}
