package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/waitlist-app/config"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/floor"
	"github.com/yeremiapane/waitlist-app/queue"
	"github.com/yeremiapane/waitlist-app/router"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	store := database.NewStore(db)

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := floor.NewHub()
	monitor := services.NewChangeMonitor(store, hub, nil)
	if cfg.RabbitMQURL != "" {
		publisher, err := queue.Dial(cfg.RabbitMQURL)
		if err != nil {
			utils.ErrorLogger.WithError(err).Warn("event publishing disabled")
		} else {
			defer publisher.Close()
			monitor.Publisher = publisher
		}
	}
	monitor.Interval = cfg.MonitorInterval
	monitor.Start()
	defer monitor.Stop()

	handler, err := router.SetupRouter(router.Deps{Store: store, Hub: hub, Redis: rdb, Config: cfg})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithField("port", cfg.Port).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
