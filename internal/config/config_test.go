package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.TrueFalseHeuristic)
	assert.False(t, cfg.EnableAuth)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("QUIZPACK_TF_HEURISTIC", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.False(t, cfg.TrueFalseHeuristic)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	_, err := FromEnv()
	assert.Error(t, err)
}
