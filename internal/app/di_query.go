package app

import (
	"fmt"
	"strings"

	"github.com/edgegate/edgegate/internal/database"
	queryUseCase "github.com/edgegate/edgegate/internal/query/usecase"
)

// driverForDSN infers the database/sql driver name from a connection string.
// Postgres DSNs carry a URL scheme; everything else is treated as the MySQL
// DSN format ("user:pass@tcp(host:port)/db").
func driverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "mysql"
}

// QueryScopeDBs returns the named database scopes exposed through the query
// gateway. The primary database is always present under the configured default
// scope; additional scopes come from QUERY_SCOPES.
func (c *Container) QueryScopeDBs() (map[string]*queryUseCase.ScopeDB, error) {
	c.queryScopeDBsInit.Do(func() {
		primary, err := c.DB()
		if err != nil {
			c.initErrors["queryScopeDBs"] = fmt.Errorf(
				"failed to get primary database for query scopes: %w", err)
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["queryScopeDBs"] = fmt.Errorf(
				"failed to get tx manager for query scopes: %w", err)
			return
		}

		scopes := map[string]*queryUseCase.ScopeDB{
			c.config.QueryDefaultScope: {
				DB:        primary,
				Driver:    c.config.DBDriver,
				TxManager: txManager,
			},
		}

		for scope, dsn := range c.config.QueryScopes {
			if scope == c.config.QueryDefaultScope {
				continue
			}

			driver := driverForDSN(dsn)
			db, err := database.Connect(database.Config{
				Driver:             driver,
				ConnectionString:   dsn,
				MaxOpenConnections: c.config.DBMaxOpenConnections,
				MaxIdleConnections: c.config.DBMaxIdleConnections,
				ConnMaxLifetime:    c.config.DBConnMaxLifetime,
			})
			if err != nil {
				c.initErrors["queryScopeDBs"] = fmt.Errorf(
					"failed to connect query scope %q: %w", scope, err)
				return
			}

			scopes[scope] = &queryUseCase.ScopeDB{
				DB:        db,
				Driver:    driver,
				TxManager: database.NewTxManager(db),
			}
		}

		c.queryScopeDBs = scopes
	})
	if storedErr, exists := c.initErrors["queryScopeDBs"]; exists {
		return nil, storedErr
	}
	return c.queryScopeDBs, nil
}

// QueryUseCase returns the query gateway use case.
func (c *Container) QueryUseCase() (queryUseCase.QueryUseCase, error) {
	c.queryUseCaseInit.Do(func() {
		scopes, err := c.QueryScopeDBs()
		if err != nil {
			c.initErrors["queryUseCase"] = fmt.Errorf(
				"failed to get scope databases for query use case: %w", err)
			return
		}

		useCase := queryUseCase.NewQueryUseCase(scopes)

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["queryUseCase"] = fmt.Errorf(
				"failed to get business metrics for query use case: %w", err)
			return
		}

		c.queryUseCase = queryUseCase.NewQueryUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["queryUseCase"]; exists {
		return nil, storedErr
	}
	return c.queryUseCase, nil
}
