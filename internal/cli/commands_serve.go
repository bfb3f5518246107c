package cli

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/api"
	"github.com/tavolohq/tavolo/internal/service/status"
)

const defaultListenAddr = ":8480"

func newServeCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var listen string
	var soonWindow int
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API for the selected restaurant.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			restaurant, store, err := resolveRestaurant(cmd.Context(), deps, flags, format, cmd)
			if err != nil {
				return err
			}
			locale := resolveLocale(flags, restaurant)

			addr := strings.TrimSpace(listen)
			if addr == "" {
				addr = strings.TrimSpace(restaurant.Listen)
			}
			if addr == "" {
				addr = defaultListenAddr
			}

			logger := newServeLogger(cmd, logLevel)
			server := api.NewServer(store, status.NewService(soonWindow), deps.Translator, locale, restaurant.AdminToken, logger)
			if err := server.Run(cmd.Context(), addr); err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_SERVER_ERROR", err.Error())
			}
			return nil
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, for example :8480. Defaults to the profile's saved address.")
	cmd.Flags().IntVar(&soonWindow, "soon-window", status.DefaultSoonWindowMinutes, "Minutes before opening that count as opening soon.")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error.")
	return cmd
}

func newServeLogger(cmd *cobra.Command, level string) *slog.Logger {
	var slevel slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		slevel = slog.LevelDebug
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slevel})
	return slog.New(handler)
}
