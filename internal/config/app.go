package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAddr               = ":8080"
	defaultSessionIdleTimeout = 10 * time.Minute
	defaultMaxSessions        = 1000
)

// App holds the process level settings read from the environment.
type App struct {
	Addr               string
	BasePath           string
	LogFile            string
	CorsOrigins        []string
	SessionIdleTimeout time.Duration
	MaxSessions        int
	Development        bool
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewApp() (*App, error) {
	addr, ok := os.LookupEnv("APP_ADDR")
	if !ok || addr == "" {
		addr = defaultAddr
	}

	idle := defaultSessionIdleTimeout
	if s, ok := os.LookupEnv("SESSION_IDLE_TIMEOUT"); ok && s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT %q", s)
		}
		idle = d
	}

	maxSessions := defaultMaxSessions
	if s, ok := os.LookupEnv("MAX_SESSIONS"); ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_SESSIONS %q", s)
		}
		maxSessions = n
	}

	return &App{
		Addr:               addr,
		BasePath:           os.Getenv("APP_BASE_PATH"),
		LogFile:            os.Getenv("LOG_FILE"),
		CorsOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		SessionIdleTimeout: idle,
		MaxSessions:        maxSessions,
		Development:        Development(),
	}, nil
}

func (a App) Fields() logrus.Fields {
	return logrus.Fields{
		"addr":         a.Addr,
		"base_path":    a.BasePath,
		"log_file":     a.LogFile,
		"cors":         a.CorsOrigins,
		"idle_timeout": a.SessionIdleTimeout.String(),
		"max_sessions": a.MaxSessions,
		"development":  a.Development,
	}
}
