package postgres

import (
	"context"
	"testing"

	"smartdash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), config.DatabaseConfig{URL: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConnect_RejectsMalformedURL(t *testing.T) {
	_, err := Connect(context.Background(), config.DatabaseConfig{URL: "postgres://%zz"})
	assert.Error(t, err)
}

func TestPool_UninitializedReturnsErrors(t *testing.T) {
	var p *Pool
	ctx := context.Background()

	assert.ErrorIs(t, p.Ping(ctx), errNilPool)
	_, err := p.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilPool)
	_, err = p.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilPool)
	assert.Nil(t, p.SQLDB())
	assert.NoError(t, p.Close())

	empty := &Pool{}
	assert.ErrorIs(t, empty.Ping(ctx), errNilPool)
	assert.NoError(t, empty.Close())
}
