package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientIsAlwaysEmpty(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.NoError(t, repo.Set(ctx, "notifications:unread:tech-1", 3, time.Minute))

	var count int
	err := repo.Get(ctx, "notifications:unread:tech-1", &count)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Zero(t, count)

	assert.NoError(t, repo.Delete(ctx, "notifications:unread:tech-1"))
}
