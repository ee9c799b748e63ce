package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DictURL     string
	DictTimeout time.Duration

	// dictionary service
	DictPort string
	DictDSN  string
	WordFile string
}

func FromEnv() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DictURL = getenv("DICTIONARY_URL", "http://localhost:8090")
	c.DictTimeout = getdur("DICTIONARY_TIMEOUT", 3*time.Second)
	c.DictPort = getenv("DICT_PORT", "8090")
	c.DictDSN = getenv("DICT_DSN", "words.db")
	c.WordFile = os.Getenv("WORD_FILE")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
