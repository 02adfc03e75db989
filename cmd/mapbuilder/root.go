package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mapbuilder/internal/config"
	"mapbuilder/internal/engine/headless"
	"mapbuilder/internal/host"
	"mapbuilder/internal/httpapi"
	"mapbuilder/internal/imageres"
	"mapbuilder/internal/manager"
	"mapbuilder/internal/watch"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mapbuilder",
		Short:         "Build maps from declarative documents and keep them alive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addSettingFlags(root)
	root.AddCommand(newServeCmd(), newApplyCmd(), newValidateCmd())
	return root
}

// newHost builds a host and its image loader on the headless engine. The
// engine's task loop runs until ctx is done.
func newHost(ctx context.Context, cfg config.Config, log zerolog.Logger) (*host.Host, error) {
	loader, err := imageres.NewLoader(cfg.ImageWorkers)
	if err != nil {
		return nil, err
	}
	factory := headless.NewFactory(headless.WithLoop(ctx))
	return host.New(factory, cfg.Container,
		host.WithLogger(log),
		host.WithEventPublisher(manager.NewLogPublisher(log)),
		host.WithImageLoader(loader),
		host.WithSpriteDir(cfg.SpriteDir),
		host.WithStrict(true),
		host.WithBaseContext(ctx),
	), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, optionally applying and watching a map document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log, err := stderrLogger(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	h, err := newHost(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn().Err(err).Msg("closing map")
		}
	}()

	apply := func(ctx context.Context, path string) error {
		doc, err := config.LoadDocument(path)
		if err != nil {
			return err
		}
		return h.Replace(ctx, doc)
	}
	if cfg.MapPath != "" {
		if err := apply(ctx, cfg.MapPath); err != nil {
			// A broken document must not keep the API down; it can be
			// replaced over HTTP or by editing the watched file.
			log.Error().Err(err).Str("map", cfg.MapPath).Msg("initial map failed")
		}
		if cfg.Watch {
			w := watch.New(cfg.MapPath, apply, watch.WithLogger(log))
			go func() {
				if err := w.Run(ctx); err != nil {
					log.Error().Err(err).Msg("map watcher stopped")
				}
			}()
		}
	}

	httpapi.SetLogger(log)
	if cfg.HTTPLogLevel != "" {
		httpapi.SetDefaultLogLevel(cfg.HTTPLogLevel)
	}
	httpapi.SetBaseContext(ctx)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("container", cfg.Container).Msg("mapbuilder listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return <-errc
}

func newApplyCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "apply [document]",
		Short: "Initialize a map document once, wait for setup and print its status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.MapPath = args[0]
			}
			if cfg.MapPath == "" {
				return errors.New("apply: a map document is required")
			}
			log, err := stderrLogger(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return apply(ctx, cfg, log, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "How long to wait for style setup and images")
	return cmd
}

func apply(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) error {
	doc, err := config.LoadDocument(cfg.MapPath)
	if err != nil {
		return err
	}
	h, err := newHost(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer h.Close()

	applyErr := h.Replace(ctx, doc)
	if applyErr == nil {
		applyErr = h.Wait(ctx)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h.Status()); err != nil {
		return err
	}
	return applyErr
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]",
		Short: "Resolve a map document and check its references without creating a map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.MapPath = args[0]
			}
			if cfg.MapPath == "" {
				return errors.New("validate: a map document is required")
			}
			return validate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func validate(ctx context.Context, cfg config.Config, out io.Writer) error {
	doc, err := config.LoadDocument(cfg.MapPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	h, err := newHost(ctx, cfg, zerolog.Nop())
	if err != nil {
		return err
	}
	defer h.Close()
	mc, err := h.Resolve(doc)
	if err != nil {
		return err
	}
	if err := manager.Validate(mc); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s: ok (%d sources, %d layers, %d images, %d controls)\n",
		cfg.MapPath, len(mc.Sources), len(mc.Layers), len(mc.Images), len(mc.Controls))
	return err
}
