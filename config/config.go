package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Log        LogConfig        `envPrefix:"LOG_"`
	Database   DatabaseConfig   `envPrefix:"DATABASE_"`
	Session    SessionConfig    `envPrefix:"SESSION_"`
	RememberMe RememberMeConfig `envPrefix:"REMEMBER_ME_"`
	CSRF       CSRFConfig       `envPrefix:"CSRF_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"persistauth.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type SessionConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Store    string        `env:"STORE" envDefault:"memory"`
	Name     string        `env:"NAME" envDefault:"session"`
	Path     string        `env:"PATH" envDefault:"/"`
	Domain   string        `env:"DOMAIN" envDefault:""`
	Secure   bool          `env:"SECURE" envDefault:"true"`
	HttpOnly bool          `env:"HTTP_ONLY" envDefault:"true"`
	SameSite string        `env:"SAME_SITE" envDefault:"lax"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"24h"`
}

type RememberMeConfig struct {
	Enabled        bool          `env:"ENABLED" envDefault:"true"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"remember_me_token"`
	CookiePath     string        `env:"COOKIE_PATH" envDefault:"/"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieSameSite string        `env:"COOKIE_SAME_SITE" envDefault:"strict"`
	Expiry         time.Duration `env:"EXPIRY" envDefault:"720h"`
	TokenLength    int           `env:"TOKEN_LENGTH" envDefault:"32"`
}

type CSRFConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"true"`
	TokenLength int    `env:"TOKEN_LENGTH" envDefault:"32"`
	TokenLookup string `env:"TOKEN_LOOKUP" envDefault:"header:X-CSRF-Token"`
	ContextKey  string `env:"CONTEXT_KEY" envDefault:"csrf"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
