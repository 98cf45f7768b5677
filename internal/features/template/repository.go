package template

import (
	"context"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *ImportTemplate) error
	Get(ctx context.Context, id string) (*ImportTemplate, error)
	Update(ctx context.Context, id string, tpl *ImportTemplate) error
	FindByType(ctx context.Context, templateType string, operator string) ([]ImportTemplate, error)
}

type TemplateRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTemplateRepository(db *database.MongodbDB) TemplateRepository {
	return &TemplateRepositoryImpl{
		collection: db.DB.Collection("import_templates"),
	}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, tpl *ImportTemplate) error {
	if tpl.ID.IsZero() {
		tpl.ID = primitive.NewObjectID()
	}
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, tpl)
	return err
}

func (r *TemplateRepositoryImpl) Get(ctx context.Context, id string) (*ImportTemplate, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var tpl ImportTemplate
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, id string, tpl *ImportTemplate) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	tpl.ID = objID
	tpl.UpdatedAt = time.Now()
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, tpl)
	return err
}

func (r *TemplateRepositoryImpl) FindByType(ctx context.Context, templateType string, operator string) ([]ImportTemplate, error) {
	filter := bson.M{}
	if templateType != "" {
		filter["template_type"] = templateType
	}
	if operator != "" {
		filter["operator"] = operator
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []ImportTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
