// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/soundweaver/vizor/internal/adapter/audio/mock"
	"github.com/soundweaver/vizor/internal/adapter/audio/synth"
	"github.com/soundweaver/vizor/internal/adapter/eventbus"
	"github.com/soundweaver/vizor/internal/adapter/repository/memory"
	fyneui "github.com/soundweaver/vizor/internal/adapter/ui/fyne"
	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/logger"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
	"github.com/soundweaver/vizor/internal/render/styles"
	"github.com/soundweaver/vizor/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	source   ports.SpectrumSource
	registry *render.Registry

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	visualizer *service.VisualizerService

	// UI
	ui ports.UI

	// Producer loop
	frameInterval time.Duration
	cancelStream  context.CancelFunc

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// FFTBins is the number of magnitude bins per analysis frame
	FFTBins int

	// FrameRate is the analysis frame rate in frames per second
	FrameRate int

	// UseMockSource substitutes a fixed-frame spectrum source (for testing)
	UseMockSource bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:         "com.soundweaver.vizor",
		AppName:       "Vizor",
		FFTBins:       256,
		FrameRate:     30,
		UseMockSource: false,
		LogLevel:      loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	loggerCfg := logger.Config{
		Level:  config.LogLevel,
		Format: "text",
	}
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("app_name", config.AppName),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(
		app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the spectrum source
	if config.UseMockSource {
		app.source = mock.NewSource(make([]float64, config.FFTBins))
	} else {
		app.source = synth.NewEngine(
			app.logger.With(slog.String("source", "synth")), config.FFTBins)
	}

	// Step 5: Create repositories
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())

	// Step 6: Create the renderer registry over the built-in style table
	app.registry = render.NewRegistry(
		app.logger.With(slog.String("component", "registry")),
		app.eventBus,
		styles.Table(),
		styles.Fallback,
	)

	// Step 7: Create the visualizer service (restores persisted state)
	visualizer, err := service.NewVisualizerService(
		app.logger.With(slog.String("service", "visualizer")),
		app.registry,
		app.preferencesRepo,
		app.eventBus,
		styles.All(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create visualizer service: %w", err)
	}
	app.visualizer = visualizer

	// Step 8: Create UI and connect it to the service
	window := fyneui.NewMainWindow(app.fyneApp)
	window.SetController(app.visualizer)
	app.ui = window

	// Step 9: Push the restored state into the view
	app.ui.SetStyleOptions(app.visualizer.Styles(), app.visualizer.CurrentStyle())
	app.ui.SetQuality(app.visualizer.Quality())
	app.ui.SetOverlay(app.visualizer.Overlay())

	// Step 10: Keep the view in sync with service-side changes
	app.subscribeUIUpdates()

	app.frameInterval = time.Second / time.Duration(config.FrameRate)

	return app, nil
}

// subscribeUIUpdates mirrors service events back onto the view widgets so the
// selectors stay accurate when a change originates elsewhere (fallback
// substitution, registry reset).
func (a *Application) subscribeUIUpdates() {
	a.eventBus.Subscribe(domain.EventStyleChanged, func(event domain.Event) {
		e := event.(domain.StyleChangedEvent)
		a.ui.SetStyleOptions(a.visualizer.Styles(), e.Style)
		if e.Fallback {
			a.ui.ShowError("Style unavailable",
				fmt.Sprintf("%q failed, showing %q instead", e.Previous, e.Style))
		}
	})

	a.eventBus.Subscribe(domain.EventQualityChanged, func(event domain.Event) {
		e := event.(domain.QualityChangedEvent)
		a.ui.SetQuality(e.Quality)
	})

	a.eventBus.Subscribe(domain.EventOverlayToggled, func(event domain.Event) {
		e := event.(domain.OverlayToggledEvent)
		a.ui.SetOverlay(e.Active)
	})

	a.eventBus.Subscribe(domain.EventRendererFailed, func(event domain.Event) {
		e := event.(domain.RendererFailedEvent)
		a.logger.Error("renderer backend failed",
			slog.String("style", string(e.Style)),
			slog.Any("error", e.Err))
	})
}

// Run starts the frame producer and the UI event loop. Blocks until the
// window is closed.
func (a *Application) Run() error {
	a.logger.Info("Vizor started")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelStream = cancel

	frames := a.source.Stream(ctx, a.frameInterval)
	go func() {
		for frame := range frames {
			a.ui.PushFrame(frame)
		}
		a.logger.Debug("frame producer stopped")
	}()

	return a.ui.Run()
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go. Idempotent.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.cancelStream != nil {
			a.cancelStream()
		}

		if a.source != nil {
			if err := a.source.Close(); err != nil {
				a.logger.Warn("failed to close spectrum source", slog.Any("error", err))
			}
		}

		if a.visualizer != nil {
			if err := a.visualizer.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown visualizer service", slog.Any("error", err))
			}
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil {
				a.logger.Warn("failed to close event bus", slog.Any("error", err))
			}
		}

		a.logger.Info("application shutdown complete")
	})

	return nil
}

// Visualizer exposes the visualizer service, primarily for tests.
func (a *Application) Visualizer() *service.VisualizerService {
	return a.visualizer
}

// EventBus exposes the event bus, primarily for tests.
func (a *Application) EventBus() ports.EventBus {
	return a.eventBus
}
