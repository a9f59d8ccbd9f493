package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-go/sortable/internal/config"
	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/server"
)

type serveFlags struct {
	configPath string
	port       int
	host       string
	items      []string
	handle     string
	axis       string
	metrics    bool
	origins    []string
	logLevel   string
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a sortable list",
		Long: `Serve the list page on / and drive it over /_sortable.

Settings come from the nearest sortable.json above the working directory
(or --config) and are overridden by flags.

Examples:
  sortable serve
  sortable serve --port=8080 --items=Apples,Bread,Cheese
  sortable serve --handle=.sortable-handle --axis=horizontal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(cmd, f)
			if err != nil {
				return err
			}
			srv, err := server.New(serverConfig(cfg))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving %d items on http://%s", len(cfg.List.Items), cfg.Address())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to sortable.json")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from sortable.json)")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Host to bind to (default from sortable.json)")
	cmd.Flags().StringSliceVar(&f.items, "items", nil, "Comma-separated list items")
	cmd.Flags().StringVar(&f.handle, "handle", "", "Selector a drag must start inside")
	cmd.Flags().StringVar(&f.axis, "axis", "", "List axis: vertical or horizontal")
	cmd.Flags().BoolVar(&f.metrics, "metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().StringSliceVar(&f.origins, "origin", nil, "Allowed WebSocket origin (repeatable)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	return cmd
}

// loadServeConfig reads the config file and applies the flags the user set.
func loadServeConfig(cmd *cobra.Command, f serveFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if f.port > 0 {
		cfg.Server.Port = f.port
	}
	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if flags.Changed("items") {
		cfg.List.Items = f.items
	}
	if f.handle != "" {
		cfg.Drag.Handle = f.handle
	}
	if f.axis != "" {
		cfg.List.Axis = f.axis
	}
	if flags.Changed("metrics") {
		cfg.Server.Metrics = f.metrics
	}
	if len(f.origins) > 0 {
		cfg.Server.AllowedOrigins = f.origins
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		se := errors.FromError(err, errors.CodeConfigInvalid)
		if cfg.Path() != "" && se.Suggestion == "" {
			se.WithSuggestion("Fix the value in " + cfg.Path() + " or override it with a flag")
		}
		return nil, se
	}
	return cfg, nil
}

// serverConfig maps a validated config onto the server's settings.
func serverConfig(cfg *config.Config) *server.ServerConfig {
	axis := dom.Vertical
	if cfg.List.Axis == "horizontal" {
		axis = dom.Horizontal
	}

	sc := &server.ServerConfig{
		Address:         cfg.Address(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		SessionConfig: &server.SessionConfig{
			ReadTimeout:       cfg.ReadTimeout(),
			WriteTimeout:      cfg.WriteTimeout(),
			HeartbeatInterval: cfg.HeartbeatInterval(),
			MaxMessageSize:    cfg.Session.MaxMessageSize,
		},
		Title:   cfg.List.Title,
		Items:   cfg.List.Items,
		Axis:    axis,
		Gap:     cfg.List.Gap,
		Drag:    *cfg.DragOptions(),
		Metrics: cfg.Server.Metrics,
		Logger:  cfg.Logger(),
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		sc.CheckOrigin = server.AllowOrigins(cfg.Server.AllowedOrigins...)
	}
	return sc
}
