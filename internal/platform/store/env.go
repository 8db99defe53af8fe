package store

import "mgnrega/internal/platform/config"

// FromEnv reads backend settings from SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_MONGO_*.
// A backend is enabled only when its url is set, so a file backed deploy needs no databases
func FromEnv(root config.Conf, app string) Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	moCfg := root.Prefix("SERVICE_MONGO_")

	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	moURI := moCfg.MayString("URI", "")

	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
			Role:    app,
		},
		Mongo: MongoConfig{
			Enabled: moURI != "",
			URI:     moURI,
			DB:      moCfg.MayString("DB", "mgnrega"),
		},
	}
}
