// Package modkit wires API modules: the shared deps, build options and the module contract
package modkit

import (
	"confsrv/internal/platform/config"
	"confsrv/internal/platform/logger"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps are the shared dependencies handed to every module constructor
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	Store *store.Store
}

// PG returns the primary database, nil when the store is absent
func (d Deps) PG() store.TxRunner {
	if d.Store == nil {
		return nil
	}
	return d.Store.PG
}

// CH returns the ClickHouse seam, nil when disabled
func (d Deps) CH() store.Clickhouse {
	if d.Store == nil {
		return nil
	}
	return d.Store.CH
}

// Redis returns the cache client, nil when disabled
func (d Deps) Redis() redis.UniversalClient {
	if d.Store == nil {
		return nil
	}
	return d.Store.RDS
}

// Module is what the API composition root mounts
type Module interface {
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any
	Name() string
}

// Builder constructs a Module from deps and options
type Builder func(Deps, ...Option) Module
