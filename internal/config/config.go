package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const DefaultCoursesURL = "https://raw.githubusercontent.com/Nazim-hasan/EduQuizApi/main/courses.json"

type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"offline"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"` // memory|file|sqlite|postgres|redis
	DBDSN         string `env:"DB_DSN"`
	StoreBasePath string `env:"STORE_BASE_PATH" envDefault:"./data"` // for file

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"eduquiz:"`

	CoursesURL    string        `env:"COURSES_URL"` // empty: DefaultCoursesURL
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	QuestionsPath string        `env:"QUESTIONS_PATH"` // empty: built-in set

	AuthHMACSecret string `env:"AUTH_HMAC_SECRET" envDefault:"supersecret-dev-key"`
	AdminUser      string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPassHash  string `env:"ADMIN_PASS_HASH" envDefault:"$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"` // bcrypt

	CORSOriginsOnline  []string `env:"CORS_ORIGINS_ONLINE" envDefault:"https://lms.mindengage.ai" envSeparator:","`
	CORSOriginsOffline []string `env:"CORS_ORIGINS_OFFLINE" envDefault:"http://localhost:3000,http://localhost:8081" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text|json
}

// FromEnv loads the configuration and checks the values the rest of the
// service cannot work around.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CoursesURL == "" {
		cfg.CoursesURL = DefaultCoursesURL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("config: unknown MODE %q", c.Mode)
	}
	switch c.StoreDriver {
	case "memory", "file", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.CoursesURL == "" {
		return fmt.Errorf("config: COURSES_URL is required")
	}
	return nil
}

// CORSOrigins picks the origin list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}
