package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payqr/core/cache"
	"payqr/core/loader"
	"payqr/core/logger"
	"payqr/core/middleware/auth"
	"payqr/core/middleware/rayid"
	"payqr/core/render"
	"payqr/core/storage"

	"payqr/feature/converter"
	"payqr/feature/gallery"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "payqr/docs/swagger"
)

// @title payqr API
// @version 1.0
// @description Price converter that renders fast-payment QR codes.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the converter server",
	Long:  `Starts the HTTP server, the converter session and the preference flusher.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		cfg := rt.cfg

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		renderer, err := render.NewQRRenderer(cfg.Render)
		if err != nil {
			return err
		}

		artifacts := cache.New(cfg.Cache.Capacity)
		session := converter.NewService(converter.Options{
			Profile:       cfg.Payee,
			Renderer:      renderer,
			Cache:         artifacts,
			Store:         rt.store,
			Logger:        logg.Named("converter"),
			RenderTimeout: time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
			Initial:       rt.state(ctx),
		})

		// Storage is optional: without it the gallery stays unloaded
		var objects storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Storage client unavailable, gallery disabled", zap.Error(err))
		} else {
			objects = client
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(converter.NewFeature(session, 2*time.Duration(cfg.Render.TimeoutSeconds)*time.Second))
		mgr.Register(gallery.NewFeature(objects, cfg.Storage.Bucket, cfg.Gallery.Prefix, session, logg.Named("gallery")))

		// RayID first so everything after it is traceable
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}
		for _, f := range mgr.Features() {
			logg.Info("Feature registered", zap.String("feature", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return session.Run(gctx)
		})

		g.Go(func() error {
			return rt.store.RunCounterFlusher(gctx, cfg.Prefs.FlushInterval(), artifacts)
		})

		g.Go(func() error {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port), zap.Bool("protected", cfg.Server.Protected()))
			return app.Listen(cfg.Server.Address())
		})

		g.Go(func() error {
			<-gctx.Done()
			logg.Info("Shutting down server...")
			return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout())
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
