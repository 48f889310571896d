package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ayusman/drishti/internal/app"
	"github.com/ayusman/drishti/internal/capture"
	"github.com/ayusman/drishti/internal/config"
	"github.com/ayusman/drishti/internal/perf"
	"github.com/ayusman/drishti/internal/server"
	"github.com/ayusman/drishti/internal/store"
	"github.com/ayusman/drishti/internal/tray"
)

func main() {
	fmt.Println("Drishti - Face Monitoring")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".drishti")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "drishti.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	applyStoredCalibration(cfg, st)

	cameraID := cfg.CameraID
	if cameraID < 0 {
		cameraID = capture.FindWorkingCamera()
	}

	application, err := app.New(app.Config{
		Store:         st,
		CameraID:      cameraID,
		FrameRate:     cfg.FrameRate,
		Analyzer:      cfg.AnalyzerConfig(),
		PerfWindow:    cfg.PerfWindow,
		DetectTimeout: cfg.DetectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	exporter := perf.NewExporter(application.Monitor(), application)

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
		Metrics:   exporter.Handler(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	t := tray.New()
	t.OnToggle(application.SetEnabled)

	// Keep the tray's distance and counts display fresh
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			res := application.LastResult()
			if res == nil {
				continue
			}
			t.SetDistance(res.DistanceCm, res.TooClose)
			t.SetCounts(res.BlinkCount, res.FrownCount)
		}
	}()

	// Ctrl-C and SIGTERM unwind through the tray so shutdown always takes
	// the same path: stop the pipeline, log the final statistics, persist
	// the session.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		t.Quit()
	}()

	// Blocks until quit is chosen or a signal arrives
	t.Run()

	application.Stop()
}

// applyStoredCalibration overrides the configured calibration pair with
// the stored one from a previous run, if present. First run stores the
// configured values so later runs survive environment changes.
func applyStoredCalibration(cfg *config.Config, st *store.Store) {
	settings := st.Settings()

	widthStr, werr := settings.Get(store.SettingRefWidthPx)
	distStr, derr := settings.Get(store.SettingRefDistanceCm)

	if werr == nil && derr == nil {
		width, werr := strconv.ParseFloat(widthStr, 64)
		dist, derr := strconv.ParseFloat(distStr, 64)
		if werr == nil && derr == nil && width > 0 && dist > 0 {
			cfg.ReferenceWidthPx = width
			cfg.ReferenceDistanceCm = dist
			log.Printf("Using stored calibration: %.0fpx at %.0fcm", width, dist)
			return
		}
	}

	settings.Set(store.SettingRefWidthPx, strconv.FormatFloat(cfg.ReferenceWidthPx, 'f', -1, 64))
	settings.Set(store.SettingRefDistanceCm, strconv.FormatFloat(cfg.ReferenceDistanceCm, 'f', -1, 64))
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.drishti/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".drishti", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
