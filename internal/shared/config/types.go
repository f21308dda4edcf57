package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AllocationConfig tunes the optimistic-concurrency retry loop of the
// code allocation engine.
type AllocationConfig struct {
	MaxRetries        int `mapstructure:"max_retries"`
	RetryBackoffMs    int `mapstructure:"retry_backoff_ms"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// AlertConfig configures SMTP capacity alerting for sequence exhaustion.
type AlertConfig struct {
	Enabled              bool    `mapstructure:"enabled"`
	SMTPHost             string  `mapstructure:"smtp_host"`
	SMTPPort             int     `mapstructure:"smtp_port"`
	SMTPUser             string  `mapstructure:"smtp_user"`
	SMTPPassword         string  `mapstructure:"smtp_password"`
	FromAddress          string  `mapstructure:"from_address"`
	FromName             string  `mapstructure:"from_name"`
	AdminAddress         string  `mapstructure:"admin_address"`
	UtilizationThreshold float64 `mapstructure:"utilization_threshold"`
}
