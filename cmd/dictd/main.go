package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hanmaru/kkeutmal/internal/config"
	"github.com/hanmaru/kkeutmal/internal/dict"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides DICT_PORT env var)")
		loadFlag    = flag.String("load", "", "Word list file to import before serving")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`kkeutmal-dictd - Dictionary lookup service

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8090 or DICT_PORT env var)
  --load FILE     Import a word list file before serving

Environment Variables:
  DICT_PORT       Port to listen on (default: 8090)
  DICT_DSN        sqlite database path (default: words.db)
  WORD_FILE       Word list to import on startup (same as --load)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("kkeutmal-dictd %s\n", version)
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.DictPort
	}

	store, err := dict.Open(cfg.DictDSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.DictDSN).Msg("failed to open word store")
	}
	defer store.Close()

	wordFile := *loadFlag
	if wordFile == "" {
		wordFile = cfg.WordFile
	}
	if wordFile != "" {
		n, err := store.LoadWordFile(context.Background(), wordFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", wordFile).Msg("failed to import word list")
		}
		log.Info().Int("words", n).Str("file", wordFile).Msg("word list imported")
	}

	total, err := store.Count(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count words")
	}
	log.Info().Int("words", total).Str("port", port).Msg("dictionary service listening")

	if err := http.ListenAndServe(":"+port, dict.Handler(store)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
