package databases

// go generate: mockery --name TemplateDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/report-designer-api/models"
)

const templateName = "report_templates"

// TemplateDatabase contains the methods to use with the report template database
type TemplateDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.TemplateDocument, error)
	Find(ctx context.Context, filter interface{}, page, limit int) ([]models.TemplateDocument, error)
	Upsert(ctx context.Context, doc models.TemplateDocument) error
	IncrementUsage(ctx context.Context, id string) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// categoryCount is one row of the category aggregation
type categoryCount struct {
	Category string `bson:"_id"`
	Count    int64  `bson:"count"`
}

type templateDatabase struct {
	db DatabaseHelper
}

// NewTemplateDatabase initializes a new instance of template database with the provided db connection
func NewTemplateDatabase(db DatabaseHelper) TemplateDatabase {
	return &templateDatabase{
		db: db,
	}
}

func (c *templateDatabase) FindOne(ctx context.Context, filter interface{}) (*models.TemplateDocument, error) {
	template := &models.TemplateDocument{}
	err := c.db.Collection(templateName).FindOne(ctx, filter).Decode(&template)
	if err != nil {
		return nil, err
	}
	return template, nil
}

// Find returns one page of templates, most recently saved first
func (c *templateDatabase) Find(ctx context.Context, filter interface{}, page, limit int) ([]models.TemplateDocument, error) {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	var templates []models.TemplateDocument
	curr, err := c.db.Collection(templateName).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &templates)
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Upsert writes every saved field of the document, creating it when the id is
// new. The usage count is never overwritten by a save.
func (c *templateDatabase) Upsert(ctx context.Context, doc models.TemplateDocument) error {
	update := bson.M{
		"$set": bson.M{
			"name":        doc.Name,
			"description": doc.Description,
			"category":    doc.Category,
			"tags":        doc.Tags,
			"isPublic":    doc.IsPublic,
			"layout":      doc.Layout,
			"theme":       doc.Theme,
			"settings":    doc.Settings,
			"components":  doc.Components,
			"updatedAt":   doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"usageCount": doc.UsageCount},
	}
	opts := options.Update().SetUpsert(true)
	_, err := c.db.Collection(templateName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

// IncrementUsage adds one use to a template and returns how many templates matched
func (c *templateDatabase) IncrementUsage(ctx context.Context, id string) (int64, error) {
	return c.db.Collection(templateName).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"usageCount": 1}})
}

func (c *templateDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(templateName).DeleteOne(ctx, filter)
}

func (c *templateDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(templateName).CountDocuments(ctx, filter)
}

// CountByCategory returns the number of templates per category. Uncategorized
// templates are counted under "".
func (c *templateDatabase) CountByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	curr, err := c.db.Collection(templateName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)

	var rows []categoryCount
	if err := curr.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] += r.Count
	}
	return counts, nil
}
