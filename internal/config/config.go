package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite|postgres
	DBDSN    string `env:"DB_DSN"`

	OutputBasePath string `env:"OUTPUT_BASE_PATH" envDefault:"./data"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`

	EnableAuth     bool   `env:"ENABLE_AUTH" envDefault:"false"`
	AuthHMACSecret string `env:"AUTH_HMAC_SECRET" envDefault:"supersecret-dev-key"`
	AdminUser      string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPassHash  string `env:"ADMIN_PASS_HASH" envDefault:"$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"` // bcrypt

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	TrueFalseHeuristic bool `env:"QUIZPACK_TF_HEURISTIC" envDefault:"true"`
}

// FromEnv loads an optional .env file and parses the environment.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
