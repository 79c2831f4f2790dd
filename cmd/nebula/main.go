package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/nebula/internal/app"
	"github.com/ayusman/nebula/internal/config"
	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/server"
	"github.com/ayusman/nebula/internal/store"
	"github.com/ayusman/nebula/internal/tray"
)

func main() {
	fmt.Println("Nebula - Hand-Controlled Particle Galaxy")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the tracking pipeline
	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		MirrorCamera: cfg.MirrorCamera,
		MotionThresh: cfg.MotionThreshold,
		IdleFPS:      cfg.IdleFPS,
		ActiveFPS:    cfg.ActiveFPS,
		Tuning:       cfg.Tuning(),
	})

	if err := a.Start(); err != nil {
		log.Printf("Camera unavailable (%v); serving viewer without tracking", err)
	} else {
		a.SetEnabled(true)
		defer a.Stop()
	}

	// Find viewer assets
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving viewer from: %s\n", staticDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread until quit.
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnViewer(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	a.OnStateChange(func(state control.State) {
		t.SetState(state.String())
	})
	t.Run()
}

// findWebDir searches for the viewer directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.nebula/web.
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

	homeWebDir := filepath.Join(homeDir, ".nebula", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
