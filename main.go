package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-player/internal/blob"
	"media-player/internal/catalog"
	"media-player/internal/database"
	"media-player/internal/handlers"
	"media-player/internal/importer"
	"media-player/internal/ingest"
	"media-player/internal/logging"
	"media-player/internal/middleware"
	"media-player/internal/offline"
	"media-player/internal/player"
	"media-player/internal/startup"
	"media-player/internal/workers"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("configuration error: %v", err)
	}

	// Snapshot database
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		logging.Fatal("failed to open snapshot database: %v", err)
	}
	defer db.Close()

	// Uploaded bytes
	blobs, err := blob.NewStore(config.MediaDir)
	if err != nil {
		logging.Fatal("failed to open media store: %v", err)
	}

	// Catalog, dropping entries whose bytes did not survive
	store := catalog.NewStore(db)
	if err := store.Filter(func(e catalog.Entry) bool { return blobs.Exists(e.ID) }); err != nil {
		logging.Warn("pruning catalog: %v", err)
	}

	// Offline cache
	fetcher := &offline.BlobFetcher{Blobs: blobs, Prefix: handlers.StreamPrefix}
	off := offline.NewManager(config.CacheDir, fetcher, workers.ForIO(4))

	// Playback controller over the two engine mirrors
	audio := player.NewMirrorEngine()
	video := player.NewMirrorEngine()
	controller := player.New(store, audio, video)

	ing := &ingest.Ingestor{
		Store:        store,
		Blobs:        blobs,
		Offline:      off,
		StreamPrefix: handlers.StreamPrefix,
	}

	// Import drop folder, when configured
	var imp *importer.Importer
	if config.ImporterEnabled {
		imp, err = importer.New(config.ImportDir, ing)
		if err != nil {
			logging.Warn("importer disabled: %v", err)
		}
	}

	h := handlers.New(store, blobs, controller, off, ing, audio, video)
	router := setupRouter(h, config)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	handler := middleware.Logger(loggingConfig)(router)
	if config.MetricsEnabled {
		handler = middleware.Metrics()(handler)
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, imp, off)

	logging.Info("listening on :%s (started in %s)", config.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", h.ListCatalog).Methods("GET")
	api.HandleFunc("/catalog", h.Upload).Methods("POST")
	api.HandleFunc("/catalog/playlist", h.ExportPlaylist).Methods("GET")
	api.HandleFunc("/catalog/{id}", h.DeleteEntry).Methods("DELETE")
	api.HandleFunc("/stream/{id}", h.StreamMedia).Methods("GET")

	api.HandleFunc("/player", h.GetPlayerState).Methods("GET")
	api.HandleFunc("/player/play/{id}", h.Play).Methods("POST")
	api.HandleFunc("/player/pause", h.Pause).Methods("POST")
	api.HandleFunc("/player/toggle", h.Toggle).Methods("POST")
	api.HandleFunc("/player/next", h.Next).Methods("POST")
	api.HandleFunc("/player/previous", h.Previous).Methods("POST")
	api.HandleFunc("/player/seek", h.Seek).Methods("POST")
	api.HandleFunc("/player/progress", h.Progress).Methods("POST")
	api.HandleFunc("/player/ended", h.Ended).Methods("POST")

	// Static UI
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv *http.Server, imp *importer.Importer, off *offline.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("shutting down (%s)", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("server shutdown: %v", err)
	}

	if imp != nil {
		if err := imp.Close(); err != nil {
			logging.Warn("importer shutdown: %v", err)
		}
	}

	// Drain in-flight cache writes last; they only depend on the blob
	// store.
	off.Close()

	logging.Info("shutdown complete")
}
