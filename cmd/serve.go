package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/analysis"
	"github.com/sells-group/zonemesh/internal/api"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the zone mesh HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		opts, err := meshOptions()
		if err != nil {
			return err
		}

		var analyst api.Describer
		if cfg.Anthropic.Key != "" {
			analyst = analysis.New(analysis.NewClient(cfg.Anthropic.Key), analysis.Config{
				Model:             cfg.Anthropic.Model,
				MaxTokens:         cfg.Anthropic.MaxTokens,
				RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
			})
		} else {
			zap.L().Warn("anthropic.key not set; zone analysis disabled")
		}

		geojson := api.NewGeoJSONCache(cfg.Server.CacheSize, time.Duration(cfg.Server.CacheTTLMins)*time.Minute)
		srv := api.New(st, analyst, geojson, api.Options{
			Mesh:        opts,
			Points:      cfg.Synth.Points,
			Seed:        cfg.Synth.Seed,
			RunTimeout:  time.Duration(cfg.Server.RunTimeoutSecs) * time.Second,
			CORSOrigins: cfg.Server.CORSOrigins,
		})

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
