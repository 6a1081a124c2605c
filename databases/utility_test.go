package databases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMongoPaginate(t *testing.T) {
	opts := newMongoPaginate(20, 3).getPaginatedOpts()
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)

	opts = newMongoPaginate(0, 0).getPaginatedOpts()
	assert.Equal(t, int64(1), *opts.Limit)
	assert.Equal(t, int64(0), *opts.Skip)
}
