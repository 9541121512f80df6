package store

import (
	"time"

	"confsrv/internal/platform/config"
)

// Config selects and configures backends
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures Postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures ClickHouse
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
	Tag     string
}

// RedisConfig configures Redis; URL is a redis:// URL
type RedisConfig struct {
	Enabled bool
	URL     string
}

// ConfigFrom reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*.
// Postgres is required; ClickHouse and Redis are enabled when their URL is set.
func ConfigFrom(root config.Conf, app, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	rds := root.Prefix("SERVICE_REDIS_")

	chURL := ch.MayString("DBURL", "")
	rdsURL := rds.MayString("URL", "")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:        true,
			URL:            pg.MustString("DBURL"),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 5),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH:  CHConfig{Enabled: chURL != "", URL: chURL, Role: app, Tag: tag},
		RDS: RedisConfig{Enabled: rdsURL != "", URL: rdsURL},
	}
}
