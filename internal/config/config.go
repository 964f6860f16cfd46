package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	LogLevel         string
	LogFormat        string
	APIKey           string
	BaseURL          string
	Model            string
	CredentialPolicy string
	UpstreamTimeout  time.Duration
	MinParagraphs    int
	AllowedOrigins   []string
	NatsURL          string
	NatsToken        string
}

// Load reads the process environment. A .env file in the working directory
// is applied first without overriding variables that are already set.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment only. Settings with legacy names
// list them after the current one.
func FromEnv() Config {
	return Config{
		Port:             parsed(8080, strconv.Atoi, "PORT"),
		LogLevel:         str("info", "LOG_LEVEL"),
		LogFormat:        str("json", "LOG_FORMAT"),
		APIKey:           str("", "LLM_API_KEY", "GROQ_API_KEY", "GROK_API_KEY"),
		BaseURL:          str("https://api.groq.com/openai/v1", "LLM_BASE_URL", "GROK_API_URL"),
		Model:            str("llama-3.3-70b-versatile", "MODEL"),
		CredentialPolicy: str("fallback", "CREDENTIAL_POLICY"),
		UpstreamTimeout:  parsed(60*time.Second, positiveDuration, "UPSTREAM_TIMEOUT"),
		MinParagraphs:    parsed(5, strconv.Atoi, "MIN_PARAGRAPHS"),
		AllowedOrigins:   parsed([]string{"*"}, commaList, "CORS_ORIGINS"),
		NatsURL:          str("", "NATS_URL"),
		NatsToken:        str("", "NATS_TOKEN"),
	}
}

// lookup returns the first non-empty value among keys.
func lookup(keys ...string) (string, bool) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v, true
		}
	}
	return "", false
}

func str(fallback string, keys ...string) string {
	if v, ok := lookup(keys...); ok {
		return v
	}
	return fallback
}

// parsed converts the first set value among keys with parse. Values that
// fail to parse yield fallback.
func parsed[T any](fallback T, parse func(string) (T, error), keys ...string) T {
	v, ok := lookup(keys...)
	if !ok {
		return fallback
	}
	out, err := parse(v)
	if err != nil {
		return fallback
	}
	return out
}

func positiveDuration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %s is not positive", v)
	}
	return d, nil
}

func commaList(v string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no entries in %q", v)
	}
	return out, nil
}
