package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/storage"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format     string
	Restaurant string
	Locale     string
	Output     string
	Verbose    bool
}

const sharedGlobalFlagAnnotation = "tavolo_cli_shared_global"

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	addSharedGlobalFlag(cmd, "format", func() {
		cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")
	})
	addSharedGlobalFlag(cmd, "restaurant", func() {
		cmd.Flags().StringVar(&flags.Restaurant, "restaurant", "", "Restaurant profile name for saved local defaults.")
	})
	addSharedGlobalFlag(cmd, "locale", func() {
		cmd.Flags().StringVar(&flags.Locale, "locale", "", "Status phrase locale, for example en, fi, or it. Defaults to the profile locale.")
	})
	addSharedGlobalFlag(cmd, "output", func() {
		cmd.Flags().StringVar(&flags.Output, "output", "", "Write the result to a file instead of stdout.")
	})
	addSharedGlobalFlag(cmd, "verbose", func() {
		cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output (prints detailed error diagnostics).")
	})
}

func addSharedGlobalFlag(cmd *cobra.Command, name string, register func()) {
	if cmd.Flags().Lookup(name) != nil {
		return
	}
	register()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = map[string][]string{}
	}
	flag.Annotations[sharedGlobalFlagAnnotation] = []string{"true"}
}

func parseOutputFormat(format string) (output.Format, error) {
	return output.ParseFormat(format)
}

func writeTable(cmd *cobra.Command, text string, outputPath string) error {
	return output.WriteOutput(cmd.OutOrStdout(), text, outputPath)
}

func writeMachinePayload(cmd *cobra.Command, env output.Envelope, format output.Format, outputPath string) error {
	rendered, err := output.RenderPayload(env, format)
	if err != nil {
		return err
	}
	return output.WriteOutput(cmd.OutOrStdout(), rendered, outputPath)
}

func emitError(
	cmd *cobra.Command,
	format output.Format,
	restaurant string,
	locale string,
	outputPath string,
	code string,
	message string,
) error {
	if format == output.FormatTable {
		if err := output.WriteOutput(cmd.OutOrStdout(), message, outputPath); err != nil {
			return err
		}
		return &exitError{code: 1}
	}
	env := output.BuildEnvelope(restaurant, locale, nil, []string{}, map[string]any{
		"code":    code,
		"message": message,
	})
	if err := writeMachinePayload(cmd, env, format, outputPath); err != nil {
		return err
	}
	return &exitError{code: 1}
}

func restaurantError(err error, format output.Format, restaurantName string, locale string, outputPath string, cmd *cobra.Command) error {
	if strings.TrimSpace(restaurantName) == "" {
		restaurantName = "default"
	}
	return emitError(cmd, format, restaurantName, locale, outputPath, "TAVOLO_RESTAURANT_ERROR", err.Error())
}

func emitUpstreamError(
	cmd *cobra.Command,
	format output.Format,
	restaurant string,
	locale string,
	outputPath string,
	verbose bool,
	err error,
) error {
	if err == nil {
		err = business.ErrUpstream
	}
	if verbose {
		return emitError(cmd, format, restaurant, locale, outputPath, "TAVOLO_UPSTREAM_ERROR", err.Error())
	}

	message := business.ErrUpstream.Error() + " (use --verbose for details)"
	var upstreamErr *business.UpstreamRequestError
	if errors.As(err, &upstreamErr) && upstreamErr.StatusCode > 0 {
		message = fmt.Sprintf("%s (status %d, use --verbose for details)", business.ErrUpstream.Error(), upstreamErr.StatusCode)
	}
	return emitError(cmd, format, restaurant, locale, outputPath, "TAVOLO_UPSTREAM_ERROR", message)
}

// resolveRestaurant finds the selected profile and opens its dataset
// backend. Errors are already emitted in the requested format.
func resolveRestaurant(
	ctx context.Context,
	deps Dependencies,
	flags globalFlags,
	format output.Format,
	cmd *cobra.Command,
) (domain.Restaurant, storage.Store, error) {
	restaurant, err := deps.Restaurants.Find(ctx, flags.Restaurant)
	if err != nil {
		return domain.Restaurant{}, nil, restaurantError(err, format, flags.Restaurant, flags.Locale, flags.Output, cmd)
	}
	store, err := deps.Stores.For(restaurant)
	if err != nil {
		return domain.Restaurant{}, nil, emitError(
			cmd,
			format,
			restaurant.Name,
			resolveLocale(flags, restaurant),
			flags.Output,
			"TAVOLO_STORAGE_ERROR",
			err.Error(),
		)
	}
	return restaurant, store, nil
}

func resolveLocale(flags globalFlags, restaurant domain.Restaurant) string {
	if locale := strings.TrimSpace(flags.Locale); locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(restaurant.Locale); locale != "" {
		return locale
	}
	return "en"
}

func resolveTimezone(restaurant domain.Restaurant) (*time.Location, []string) {
	tz := strings.TrimSpace(restaurant.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local, []string{fmt.Sprintf("unknown timezone %q, falling back to local time", tz)}
	}
	return loc, nil
}

// loadHoursLenient degrades a missing hours dataset to an empty
// schedule so status commands keep working before setup.
func loadHoursLenient(ctx context.Context, store storage.Store) (domain.WeeklySchedule, []string, error) {
	weekly, err := store.LoadHours(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.WeeklySchedule{}, []string{"no weekly hours configured yet, treating every day as closed"}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return weekly, nil, nil
}

func loadClosingsLenient(ctx context.Context, store storage.Store) ([]domain.ClosingRecord, error) {
	closings, err := store.LoadClosings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return closings, err
}

func loadMessagesLenient(ctx context.Context, store storage.Store) ([]domain.SpecialMessage, error) {
	messages, err := store.LoadMessages(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return messages, err
}

// parsePeriodsFlag parses "09:00-12:00,13:00-18:00" into periods.
func parsePeriodsFlag(raw string) ([]domain.Period, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ",")
	periods := make([]domain.Period, 0, len(parts))
	for _, part := range parts {
		slot := strings.TrimSpace(part)
		if slot == "" {
			continue
		}
		openValue, closeValue, ok := strings.Cut(slot, "-")
		if !ok {
			return nil, fmt.Errorf("period %q must look like HH:MM-HH:MM", slot)
		}
		openValue = strings.TrimSpace(openValue)
		closeValue = strings.TrimSpace(closeValue)
		if !isClockValue(openValue) || !isClockValue(closeValue) {
			return nil, fmt.Errorf("period %q must use 24h HH:MM bounds", slot)
		}
		periods = append(periods, domain.Period{Open: openValue, Close: closeValue})
	}
	return periods, nil
}

func isClockValue(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	hh := int(value[0]-'0')*10 + int(value[1]-'0')
	mm := int(value[3]-'0')*10 + int(value[4]-'0')
	return hh <= 23 && mm <= 59
}

// parseAtFlag accepts RFC 3339 or a bare date in the given location.
func parseAtFlag(raw string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty --at value")
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed.In(loc), nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02 15:04", trimmed, loc); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("--at must be RFC 3339 or \"YYYY-MM-DD HH:MM\"")
}

func dayKeyFlag(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range domain.WeekdayKeys {
		if key == known {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown day %q, use monday through sunday", raw)
}

func requiredArg(name string) string {
	return fmt.Sprintf("%s is required", name)
}
