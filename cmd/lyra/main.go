// Package main is the entry point for the Lyra media library backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lyraplayer/lyra-backend/internal/domain/common"
	"github.com/lyraplayer/lyra-backend/internal/domain/interaction"
	"github.com/lyraplayer/lyra-backend/internal/domain/library"
	"github.com/lyraplayer/lyra-backend/internal/domain/overview"
	"github.com/lyraplayer/lyra-backend/internal/domain/playlist"
	"github.com/lyraplayer/lyra-backend/internal/infra/api"
	"github.com/lyraplayer/lyra-backend/internal/transport/socketio"
	"github.com/lyraplayer/lyra-backend/internal/version"
)

func main() {
	// Command line flags
	port := flag.String("port", "3001", "HTTP server port")
	serverURL := flag.String("server-url", "http://localhost:8000/api", "Media server API base URL")
	token := flag.String("token", "", "Media server API token")
	staticDir := flag.String("static", "", "Directory to serve static files from (optional)")
	rateLimit := flag.Int("rate-limit", api.DefaultRateLimit, "Upstream API requests per second")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *token == "" {
		log.Warn().Msg("No API token set - the media server may reject requests")
	}

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Print startup banner
	versionInfo := version.GetInfo()
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msgf("  %s", versionInfo.String())
	log.Info().Msg("  Media Library Backend")
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().
		Str("port", *port).
		Str("server_url", *serverURL).
		Bool("token_set", *token != "").
		Msg("Configuration")

	// Create the API client and the domain stores it backs
	client := api.NewClient(*serverURL, *token, api.WithRateLimit(*rateLimit))

	lib := library.New(client)
	interactions := interaction.NewService(lib, client)
	playlists := playlist.NewStore(client, lib.Songs)
	ov := overview.NewStore(lib, client)
	recent := overview.NewRecentlyPlayed(lib.Songs, client)
	commonStore := common.NewStore(client, playlists)

	// Bootstrap from the remote server
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 60*time.Second)
	snapshot, err := commonStore.Init(bootCtx)
	if err != nil {
		bootCancel()
		log.Fatal().Err(err).Msg("Failed to fetch bootstrap data")
	}
	if err := ov.Init(bootCtx); err != nil {
		log.Error().Err(err).Msg("Failed to fetch overview data")
	}
	bootCancel()
	interactions.InitInteractions(snapshot.Interactions)
	log.Info().Msg("Bootstrap complete")

	// Create Socket.io server
	socketServer, err := socketio.NewServer(lib, interactions, playlists, ov, recent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Socket.io server")
	}
	defer socketServer.Close()

	// Setup HTTP server
	mux := http.NewServeMux()

	// Socket.io endpoint
	mux.Handle("/socket.io/", socketServer)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Version endpoint
	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(version.GetInfo())
	})

	// Serve static files if directory specified (SPA mode)
	if *staticDir != "" {
		log.Info().Str("dir", *staticDir).Msg("Serving static files")
		fs := http.FileServer(http.Dir(*staticDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *staticDir + r.URL.Path
			if r.URL.Path == "/" {
				path = *staticDir + "/index.html"
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				// For SPA routing, serve index.html for non-existing paths
				http.ServeFile(w, r, *staticDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
	}

	// Start HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", ":"+*port).Msg("HTTP server listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	log.Info().Msg("Server stopped")
}
