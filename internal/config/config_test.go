package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, ":8080", cfg.GetString("server.listen_address"))
	assert.Equal(t, "mongo", cfg.GetString("store.type"))
	assert.Equal(t, "mongodb://localhost:27017", cfg.GetString("mongo.uri"))
	assert.True(t, cfg.GetBool("cache.enabled"))
	assert.Equal(t, "openai", cfg.GetString("llm.provider"))
	assert.Equal(t, 1000, cfg.GetInt("openai.max_tokens"))
	assert.InDelta(t, 0.7, cfg.GetFloat64("openai.temperature"), 0.001)
	assert.Equal(t, []string{"unsubscribed", "bounced", "complained"}, cfg.GetStringSlice("suppression.statuses"))

	ttl, err := cfg.GetDuration("cache.analytics_ttl")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)
}

func TestGetDurationRejectsGarbage(t *testing.T) {
	v := NewEmptyViper()
	v.Set("mongo.timeout", "soon")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("mongo.timeout")
	assert.Error(t, err)
}

func TestTypedConfigModels(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	mongo := cfg.GetMongo()
	assert.Equal(t, "loopcrm", mongo.Database)

	smtp := cfg.GetSMTP()
	assert.Equal(t, "noreply@loopcrm.local", smtp.From)

	llm := cfg.GetLLM()
	assert.Equal(t, "openai", llm.Provider)
}
