package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port                   string `env:"PORT" envDefault:"8080"`
	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// OnlinePoolPercent is the slice of an online order that becomes the
	// reward pool. It lives here so no call site re-derives it.
	OnlinePoolPercent float64 `env:"ONLINE_POOL_PERCENT" envDefault:"10"`

	// AdminUIDs gates the level-config and sale-approval endpoints.
	AdminUIDs []string `env:"ADMIN_UIDS" envSeparator:","`

	Verbose bool `env:"VERBOSE" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OnlinePoolFraction converts the configured percent to the multiplier the
// distribution engine expects.
func (c *Config) OnlinePoolFraction() float64 {
	return c.OnlinePoolPercent / 100
}
