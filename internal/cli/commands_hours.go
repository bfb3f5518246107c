package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/schedule"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/storage"
)

func newHoursCommand(deps Dependencies) *cobra.Command {
	hours := &cobra.Command{
		Use:   "hours",
		Short: "Inspect and edit the weekly opening hours.",
	}
	hours.AddCommand(newHoursShowCommand(deps))
	hours.AddCommand(newHoursSetCommand(deps))
	hours.AddCommand(newHoursNextOpenCommand(deps))
	return hours
}

func newHoursShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the weekly opening hours table.",
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

			weekly, warnings, err := loadHoursLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(domain.WeekdayKeys))
				for _, key := range domain.WeekdayKeys {
					day := schedule.TodayHours(weekly, key)
					rows = append(rows, []string{day.FormatLabel(key), day.FormatPeriods()})
				}
				text := output.RenderTable("", []string{"day", "hours"}, rows)
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{
				"hours": weekly,
			}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newHoursSetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var day string
	var periodsValue string
	var closed bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set one weekday's opening periods, or mark it closed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if day == "" {
				return fmt.Errorf("%s", requiredArg("--day"))
			}
			dayKey, err := dayKeyFlag(day)
			if err != nil {
				return err
			}
			periods, err := parsePeriodsFlag(periodsValue)
			if err != nil {
				return err
			}
			if !closed && len(periods) == 0 {
				return fmt.Errorf("provide --periods, or --closed to close the day")
			}
			if closed {
				periods = nil
			}

			restaurant, store, err := resolveRestaurant(cmd.Context(), deps, flags, format, cmd)
			if err != nil {
				return err
			}
			locale := resolveLocale(flags, restaurant)

			weekly, err := store.LoadHours(cmd.Context())
			if errors.Is(err, storage.ErrNotFound) {
				weekly = domain.WeeklySchedule{}
			} else if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			updated := domain.DayHours{
				IsOpen:  !closed,
				Periods: periods,
			}
			updated.Day = updated.FormatLabel(dayKey)
			weekly[dayKey] = updated
			if err := store.SaveHours(cmd.Context(), weekly); err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				return writeTable(cmd, fmt.Sprintf("%s: %s", updated.FormatLabel(dayKey), updated.FormatPeriods()), flags.Output)
			}
			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{
				"day":   dayKey,
				"hours": updated,
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&day, "day", "", "Weekday to edit, monday through sunday.")
	cmd.Flags().StringVar(&periodsValue, "periods", "", "Comma-separated opening periods, for example \"09:00-12:00,13:00-18:00\".")
	cmd.Flags().BoolVar(&closed, "closed", false, "Mark the day as closed, discarding its periods.")
	return cmd
}

func newHoursNextOpenCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var at string

	cmd := &cobra.Command{
		Use:   "next-open",
		Short: "Show the next moment the restaurant opens.",
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
			loc, warnings := resolveTimezone(restaurant)

			now := deps.now().In(loc)
			if at != "" {
				now, err = parseAtFlag(at, loc)
				if err != nil {
					return err
				}
			}

			weekly, hoursWarnings, err := loadHoursLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}
			warnings = append(warnings, hoursWarnings...)

			next := schedule.NextOpeningTime(now, weekly)
			phrase := schedule.FormatNextOpening(now, schedule.TranslateFunc(deps.Translator.Func(locale)), weekly)

			if format == output.FormatTable {
				text := phrase
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{
				"nextOpening": next,
				"phrase":      phrase,
			}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this moment instead of now (RFC 3339 or \"YYYY-MM-DD HH:MM\").")
	return cmd
}
