// Package config loads settings for both binaries from the environment. A .env file
// in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const DefaultAPIURL = "https://api-biblioteca-apgn.onrender.com/"

type Client struct {
	APIURL       string        `env:"BIBLIOTECA_API_URL,default=https://api-biblioteca-apgn.onrender.com/"`
	Timeout      time.Duration `env:"BIBLIOTECA_TIMEOUT,default=60s"`
	SessionStore string        `env:"BIBLIOTECA_SESSION_STORE,default=sqlite"`
	SessionPath  string        `env:"BIBLIOTECA_SESSION_PATH"`
	RedisAddr    string        `env:"BIBLIOTECA_REDIS_ADDR,default=localhost:6379"`
	LogLevel     string        `env:"BIBLIOTECA_LOG_LEVEL,default=warn"`
}

type Server struct {
	Port              string        `env:"PORT,default=8080"`
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	JWTSecret         string        `env:"JWT_SECRET,required"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,default=24h"`
	AdminEmail        string        `env:"ADMIN_EMAIL"`
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	MidtransServerKey string        `env:"MIDTRANS_SERVER_KEY"`
	MidtransProd      bool          `env:"MIDTRANS_PRODUCTION,default=false"`
	LoginRatePerMin   int           `env:"LOGIN_RATE_PER_MINUTE,default=10"`
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
}

// LoadClient reads the client settings. Only the three session store kinds are accepted.
func LoadClient() (Client, error) {
	loadDotEnv()
	var c Client
	if err := decode(&c); err != nil {
		return Client{}, err
	}
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	switch c.SessionStore {
	case "sqlite", "redis", "memory":
	default:
		return Client{}, fmt.Errorf("BIBLIOTECA_SESSION_STORE: unknown store %q", c.SessionStore)
	}
	if c.SessionPath == "" {
		c.SessionPath = defaultSessionPath()
	}
	if c.Timeout <= 0 {
		return Client{}, errors.New("BIBLIOTECA_TIMEOUT must be positive")
	}
	return c, nil
}

func LoadServer() (Server, error) {
	loadDotEnv()
	var s Server
	if err := decode(&s); err != nil {
		return Server{}, err
	}
	if (s.AdminEmail == "") != (s.AdminPassword == "") {
		return Server{}, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if s.LoginRatePerMin <= 0 {
		return Server{}, errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return s, nil
}

// NewLogger returns a text logger at level; unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("ignoring unreadable .env")
	}
}

// decode tolerates a fully unset environment; defaults still apply.
func decode(target any) error {
	err := envdecode.Decode(target)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "biblioteca-session.db"
	}
	return filepath.Join(dir, "biblioteca", "session.db")
}
