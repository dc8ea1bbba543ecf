package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolOptionsDefaults(t *testing.T) {
	got := PoolOptions{}.withDefaults()
	assert.Equal(t, defaultMaxOpenConns, got.MaxOpenConns)
	assert.Equal(t, defaultMaxIdleConns, got.MaxIdleConns)
	assert.Equal(t, defaultConnLifetime, got.ConnMaxLifetime)

	got = PoolOptions{MaxOpenConns: 3, MaxIdleConns: 8, ConnMaxLifetime: time.Minute}.withDefaults()
	assert.Equal(t, 3, got.MaxOpenConns)
	assert.Equal(t, 3, got.MaxIdleConns)
	assert.Equal(t, time.Minute, got.ConnMaxLifetime)
}

func TestNewPostgresDBRejectsEmptyDSN(t *testing.T) {
	_, err := NewPostgresDB(context.Background(), "  ", PoolOptions{})
	assert.Error(t, err)
}
