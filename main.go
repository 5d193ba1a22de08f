package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/song-downloader/internal/backend"
	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/config"
	"github.com/ytget/song-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.song-downloader"
	AppName = "Youtube Downloader"

	WindowWidth  = 640
	WindowHeight = 720
)

func main() {
	log.Printf("%s v%s starting...", AppName, version)

	env, err := config.LoadEnv(os.Getenv(config.ConfigPathVar))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewSongTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	if env.DownloadDir != "" {
		settings.SetDownloadDirectory(env.DownloadDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := ui.Options{Settings: settings}
	if env.UsesRemoteBridge() {
		log.Printf("Using remote backend at %s", env.Bridge.URL)
		opts.Invoker = bridge.NewHTTPClient(env.Bridge.URL, env.Bridge.Timeout)
	} else {
		b := backend.New(backend.Options{
			Env:         env,
			DownloadDir: settings.GetDownloadDirectory(),
			MaxParallel: settings.GetMaxParallelDownloads(),
			Quality:     string(settings.GetQualityPreset()),
			ResultCount: settings.GetResultCount,
		})
		opts.Invoker = b.Router
		opts.Downloads = b.Downloads
	}

	ui.NewRootUI(ctx, myWindow, opts)

	// stop in-flight searches and downloads when the window goes away
	myWindow.SetOnClosed(func() {
		if opts.Downloads != nil {
			opts.Downloads.StopAll()
		}
		cancel()
	})
	myWindow.ShowAndRun()
}
