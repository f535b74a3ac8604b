package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sampleYAML = `
app:
  env: development
  port: 9000
mongo:
  uri: mongodb://mongo:27017
  database: chats
  op_timeout: 2s
redis:
  addr: redis:6379
  user_ttl: 1m
kafka:
  brokers: [kafka:9092]
  topic: events
`

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, ":9000", cfg.App.Addr())
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "chats", cfg.Mongo.Database)
	assert.Equal(t, 2*time.Second, cfg.Mongo.OpTimeout)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.UserTTL)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "events", cfg.Kafka.Topic)
	assert.Equal(t, 3, cfg.Kafka.MaxAttempts)
	assert.EqualValues(t, 5, cfg.Kafka.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Kafka.BreakerTimeout)
	assert.Equal(t, 1024, cfg.Kafka.QueueSize)
	assert.Equal(t, 600, cfg.App.RateLimitPerMinute)
	assert.Equal(t, 20, cfg.App.RateLimitBurst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("MONGO_URI", "mongodb://override:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "mongodb://override:27017", cfg.Mongo.URI)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://env:27017")
	t.Setenv("MONGO_DATABASE", "envdb")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "envdb", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing mongo uri",
			body:    "mongo:\n  database: chats\n",
			wantErr: "mongo.uri missing",
		},
		{
			name:    "missing database",
			body:    "mongo:\n  uri: mongodb://x\n",
			wantErr: "mongo.database missing",
		},
		{
			name:    "bad port",
			body:    "app:\n  port: 70000\nmongo:\n  uri: mongodb://x\n  database: d\n",
			wantErr: "app.port",
		},
		{
			name:    "negative rate limit",
			body:    "app:\n  rate_limit_per_minute: -1\nmongo:\n  uri: mongodb://x\n  database: d\n",
			wantErr: "app.rate_limit_per_minute",
		},
		{
			name:    "kafka without topic",
			body:    "mongo:\n  uri: mongodb://x\n  database: d\nkafka:\n  brokers: [k:9092]\n  topic: \"\"\n",
			wantErr: "kafka.topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "")
			t.Setenv("MONGO_DATABASE", "")

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}
