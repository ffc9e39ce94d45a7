package config

// RedisConfig contains Redis configuration for the redis session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// MongoConfig contains MongoDB configuration for the user directory
// (directory principal mode only).
type MongoConfig struct {
	// URI is the connection string. Required when the directory variant is
	// enabled; validated at startup.
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"gatehouse"`
}
