package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"rollbook"`
	Password string `env:"PASSWORD"                envDefault:"rollbook"`
	Name     string `env:"NAME"                    envDefault:"rollbook"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
	// Enabled controls whether Redis is connected at all. The snapshot cache
	// degrades to direct database reads when disabled.
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// SnapshotTTL is the TTL for cached user snapshot projections.
	SnapshotTTL time.Duration `env:"CACHE_SNAPSHOT_TTL" envDefault:"5m"`
}
