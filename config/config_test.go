package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnsphere/enrollment-service/pkg/constant"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/enrollment")
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/enrollment", cfg.DBURL)
	assert.Equal(t, "test-secret", cfg.AccessTokenSecret)
	assert.Equal(t, constant.DefaultAccessExpiryMin, cfg.AccessExpiryMin)
	assert.Equal(t, constant.DefaultResetExpiryMin, cfg.ResetExpiryMin)
	assert.Equal(t, constant.DefaultCourseCapacity, cfg.CourseCapacity)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/enrollment")
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30")
	t.Setenv("RESET_TOKEN_EXPIRY", "60")
	t.Setenv("COURSE_CAPACITY", "35")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30, cfg.AccessExpiryMin)
	assert.Equal(t, 60, cfg.ResetExpiryMin)
	assert.Equal(t, 35, cfg.CourseCapacity)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/enrollment")
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	t.Setenv("COURSE_CAPACITY", "not-a-number")

	cfg := Load()

	assert.Equal(t, constant.DefaultCourseCapacity, cfg.CourseCapacity)
}
