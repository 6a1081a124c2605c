package gateway

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/report-designer-api/databases/mocks"
	"github.com/linesmerrill/report-designer-api/models"
)

func TestStoreCountsCacheLookups(t *testing.T) {
	db := &mocks.TemplateDatabase{}
	doc := models.TemplateDocument{ID: "template_metrics"}
	db.On("Upsert", context.Background(), doc).Return(nil)
	db.On("FindOne", context.Background(), bson.M{"_id": "template_metrics"}).Return(&doc, nil)
	s, err := NewStore(db, 4)
	require.NoError(t, err)

	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	saves := testutil.ToFloat64(templateWrites.WithLabelValues("save", "ok"))

	require.NoError(t, s.Save(context.Background(), doc))
	for i := 0; i < 2; i++ {
		_, err = s.Load(context.Background(), "template_metrics")
		require.NoError(t, err)
	}

	assert.Equal(t, misses+1, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, saves+1, testutil.ToFloat64(templateWrites.WithLabelValues("save", "ok")))
}
