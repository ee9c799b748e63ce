package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/hanmaru/kkeutmal/internal/config"
	"github.com/hanmaru/kkeutmal/internal/dict"
	"github.com/hanmaru/kkeutmal/internal/game"
	"github.com/hanmaru/kkeutmal/internal/ws"
	staticserver "github.com/hanmaru/kkeutmal/static"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`kkeutmal - Real-time Korean word-chain game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  DICTIONARY_URL      Dictionary lookup service base URL (default: http://localhost:8090)
  DICTIONARY_TIMEOUT  Lookup timeout as a Go duration (default: 3s)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("kkeutmal %s\n", version)
		return
	}

	// Config
	cfg := config.FromEnv()

	// Determine port
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Room + socket coordinator
	room := game.NewRoom(game.Initial())
	coord := ws.NewCoordinator(room)
	io := coord.Mount(r)
	defer io.Close()
	defer coord.Close()

	// Dictionary proxy, so the SPA talks to one origin only
	lookup := dict.NewClient(cfg.DictURL, cfg.DictTimeout)
	r.GET("/dictionary/word/:word", func(c *gin.Context) {
		entry, err := lookup.Lookup(c.Request.Context(), c.Param("word"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "dictionary_unavailable"})
			return
		}
		c.JSON(http.StatusOK, entry)
	})
	r.GET("/dictionary/random", func(c *gin.Context) {
		entry, err := lookup.Random(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "dictionary_unavailable"})
			return
		}
		c.JSON(http.StatusOK, entry)
	})

	// Minimal stats API
	r.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, coord.Stats())
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
