package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, ":3000", cfg.Server.Address())
	assert.Equal(t, 24, cfg.Auth.JWTTTLHours)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "pos-events", cfg.Kafka.Topic)
}

func TestLoadBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")

	cfg := Load()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{URL: "postgres://u:p@db:5432/pos"}
	assert.Equal(t, "postgres://u:p@db:5432/pos", d.DSN())

	d = DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "pos", Port: "5432", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC", d.DSN())
}
