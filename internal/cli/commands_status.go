package cli

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/schedule"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/service/status"
)

func newStatusCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var at string
	var soonWindow int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the restaurant is open, opening soon, or closed.",
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
			closings, err := loadClosingsLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}
			messages, err := loadMessagesLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			svc := status.NewService(soonWindow)
			snapshot := svc.Evaluate(weekly, closings, messages, now)
			phrase := svc.Phrase(snapshot, now, weekly, schedule.TranslateFunc(deps.Translator.Func(locale)))

			if format == output.FormatTable {
				rows := [][]string{
					{"state", string(snapshot.State)},
					{"phrase", phrase},
					{"day", snapshot.Day},
					{"time", snapshot.Time},
				}
				if snapshot.CurrentPeriod != nil {
					rows = append(rows, []string{"current period", snapshot.CurrentPeriod.Open + " - " + snapshot.CurrentPeriod.Close})
				}
				if snapshot.State != status.StateOpen && snapshot.MinutesUntilOpening > 0 {
					rows = append(rows, []string{"opens in", strconv.Itoa(snapshot.MinutesUntilOpening) + " min"})
				}
				if snapshot.NextOpening != nil {
					rows = append(rows, []string{"next opening", snapshot.NextOpening.Day + " " + snapshot.NextOpening.Time})
				}
				if snapshot.ActiveClosing != nil {
					rows = append(rows, []string{"closed for", snapshot.ActiveClosing.FormatReason()})
					rows = append(rows, []string{"closed window", snapshot.ActiveClosing.FormatRange()})
				}
				for _, message := range snapshot.Messages {
					rows = append(rows, []string{"notice [" + message.FormatSeverity() + "]", message.Text})
				}
				text := output.RenderTable("", []string{"field", "value"}, rows)
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{
				"snapshot": snapshot,
				"phrase":   phrase,
			}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this moment instead of now (RFC 3339 or \"YYYY-MM-DD HH:MM\").")
	cmd.Flags().IntVar(&soonWindow, "soon-window", status.DefaultSoonWindowMinutes, "Minutes before opening that count as opening soon.")
	return cmd
}
