package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/naagin/internal/app"
	"github.com/ayusman/naagin/internal/capture"
	"github.com/ayusman/naagin/internal/server"
	"github.com/ayusman/naagin/internal/store"
	"github.com/ayusman/naagin/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "preferred camera device index")
		noTray   = flag.Bool("no-tray", false, "run without the system tray")
	)
	flag.Parse()

	fmt.Println("Naagin - Head-Controlled Snake")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".naagin")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "naagin.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:     st,
		PluginDir: filepath.Join(dataDir, "plugins"),
		CameraID:  *cameraID,
	})
	a.LoadSettings()

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	// Probe for a working camera before committing to the configured index
	if cam, err := capture.OpenAny(*cameraID); err == nil {
		a.SetCamera(cam)
	} else {
		log.Printf("No camera found (%v), starting without capture", err)
	}

	// The score API and tray stay useful without a camera
	if err := a.Start(); err != nil {
		log.Printf("Failed to start pipeline: %v", err)
	}
	defer a.Quit()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Game:      a,
		Camera:    a.Camera(),
	})

	fmt.Printf("Starting server on %s\n", *addr)
	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		<-a.Done()
		return
	}

	t := tray.New()
	t.OnPause(func(paused bool) {
		if paused {
			a.Pause()
		} else {
			a.Resume()
		}
	})
	t.OnRestart(a.Restart)
	t.OnOpen(func() { openBrowser("http://localhost" + *addr) })
	t.OnQuit(a.Quit)

	// Blocks until the tray quits
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.naagin/web.
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

	homeWebDir := filepath.Join(homeDir, ".naagin", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform's default handler.
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
