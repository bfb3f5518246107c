package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/schedule"
	"github.com/tavolohq/tavolo/internal/service/holiday"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/storage"
)

func newClosingsCommand(deps Dependencies) *cobra.Command {
	closings := &cobra.Command{
		Use:   "closings",
		Short: "Manage closing periods such as holidays and renovations.",
	}
	closings.AddCommand(newClosingsListCommand(deps))
	closings.AddCommand(newClosingsAddCommand(deps))
	closings.AddCommand(newClosingsRemoveCommand(deps))
	closings.AddCommand(newClosingsHolidaysCommand(deps))
	return closings
}

func newClosingsListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var activeOnly bool
	var upcomingOnly bool
	var at string
	var limit int
	var offset int
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List closing periods, optionally filtered to active or upcoming ones.",
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

			closings, err := loadClosingsLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if activeOnly && upcomingOnly {
				return fmt.Errorf("use either --active or --upcoming, not both")
			}
			if activeOnly {
				active := schedule.ActiveClosing(closings, now)
				closings = nil
				if active != nil {
					closings = []domain.ClosingRecord{*active}
				}
			}
			if upcomingOnly {
				closings = upcomingClosings(closings, now)
			}

			limitSet := cmd.Flags().Changed("limit")
			offsetSet := cmd.Flags().Changed("offset")
			pageSet := cmd.Flags().Changed("page")
			resolvedOffset, err := resolvePageOffset(limit, limitSet, offset, offsetSet, page, pageSet)
			if err != nil {
				return err
			}
			var limitPtr *int
			if limitSet {
				limitPtr = &limit
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(closings))
				for _, closing := range closings {
					active := "no"
					if closing.IsActive {
						active = "yes"
					}
					rows = append(rows, []string{closing.ID, closing.FormatReason(), closing.FormatRange(), active})
				}
				total := len(rows)
				start := resolvedOffset
				if start > total {
					start = total
				}
				end := total
				if limitPtr != nil && start+*limitPtr < end {
					end = start + *limitPtr
				}
				text := output.RenderTable("", []string{"id", "reason", "window", "active"}, rows[start:end])
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			items := make([]any, 0, len(closings))
			for _, closing := range closings {
				items = append(items, closing)
			}
			data := map[string]any{"items": items}
			paginateFlatRows(data, "items", limitPtr, resolvedOffset)
			if pageSet {
				data["page"] = page
			}
			env := output.BuildEnvelope(restaurant.Name, locale, data, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Show only the closing active at the evaluated moment.")
	cmd.Flags().BoolVar(&upcomingOnly, "upcoming", false, "Show only closings whose start date is still ahead.")
	cmd.Flags().StringVar(&at, "at", "", "Evaluate the filters at this moment instead of now.")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows to return.")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rows to skip.")
	cmd.Flags().IntVar(&page, "page", 0, "1-based page number, requires --limit.")
	return cmd
}

func newClosingsAddCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var reason string
	var start string
	var end string
	var priority int
	var emergency bool
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a closing period.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("%s", requiredArg("--reason"))
			}
			startBound, err := normalizeBoundFlag(start, "--start")
			if err != nil {
				return err
			}
			endBound, err := normalizeBoundFlag(end, "--end")
			if err != nil {
				return err
			}

			restaurant, store, err := resolveRestaurant(cmd.Context(), deps, flags, format, cmd)
			if err != nil {
				return err
			}
			locale := resolveLocale(flags, restaurant)

			closings, err := loadClosingsLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			record := domain.ClosingRecord{
				ID:        output.NewRecordID("cls"),
				Reason:    strings.TrimSpace(reason),
				IsActive:  !inactive,
				StartDate: startBound,
				EndDate:   endBound,
				Priority:  priority,
				Emergency: emergency,
			}
			closings = append(closings, record)
			if err := store.SaveClosings(cmd.Context(), closings); err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				return writeTable(cmd, fmt.Sprintf("added %s: %s (%s)", record.ID, record.FormatReason(), record.FormatRange()), flags.Output)
			}
			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{"closing": record}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&reason, "reason", "", "Human-readable closing reason.")
	cmd.Flags().StringVar(&start, "start", "", "First closed moment (RFC 3339 or YYYY-MM-DD). Omit for an open-ended start.")
	cmd.Flags().StringVar(&end, "end", "", "Last closed moment (RFC 3339 or YYYY-MM-DD). Omit for an open-ended end.")
	cmd.Flags().IntVar(&priority, "priority", 0, "Ordering hint stored with the record.")
	cmd.Flags().BoolVar(&emergency, "emergency", false, "Mark the closing as an emergency.")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Store the closing disabled.")
	return cmd
}

func newClosingsRemoveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a closing period by ID.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("%s", requiredArg("--id"))
			}

			restaurant, store, err := resolveRestaurant(cmd.Context(), deps, flags, format, cmd)
			if err != nil {
				return err
			}
			locale := resolveLocale(flags, restaurant)

			closings, err := store.LoadClosings(cmd.Context())
			if errors.Is(err, storage.ErrNotFound) {
				closings = nil
			} else if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			kept := make([]domain.ClosingRecord, 0, len(closings))
			found := false
			for _, closing := range closings {
				if closing.ID == id {
					found = true
					continue
				}
				kept = append(kept, closing)
			}
			if !found {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_NOT_FOUND", fmt.Sprintf("closing %q not found", id))
			}
			if err := store.SaveClosings(cmd.Context(), kept); err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				return writeTable(cmd, "removed "+id, flags.Output)
			}
			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{"removed": id}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&id, "id", "", "Closing record ID, as shown by closings list.")
	return cmd
}

func newClosingsHolidaysCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var year int
	var country string
	var save bool

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Suggest closing periods for public holidays.",
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

			if year == 0 {
				year = deps.now().In(loc).Year()
			}
			suggestions, err := holiday.Suggest(year, country, loc)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_INVALID_ARGUMENT", err.Error())
			}

			if save {
				closings, err := loadClosingsLenient(cmd.Context(), store)
				if err != nil {
					return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
				}
				existing := make(map[string]struct{}, len(closings))
				for _, closing := range closings {
					existing[closing.ID] = struct{}{}
				}
				added := 0
				for _, suggestion := range suggestions {
					if _, ok := existing[suggestion.ID]; ok {
						continue
					}
					closings = append(closings, suggestion)
					added++
				}
				if err := store.SaveClosings(cmd.Context(), closings); err != nil {
					return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
				}
				warnings = append(warnings, fmt.Sprintf("saved %d holiday closings (disabled until activated)", added))
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(suggestions))
				for _, suggestion := range suggestions {
					rows = append(rows, []string{suggestion.ID, suggestion.Reason, suggestion.FormatRange()})
				}
				text := output.RenderTable("", []string{"id", "holiday", "window"}, rows)
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{
				"year":      year,
				"country":   strings.ToLower(strings.TrimSpace(country)),
				"holidays":  suggestions,
				"countries": holiday.Countries(),
			}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year to suggest for. Defaults to the current year.")
	cmd.Flags().StringVar(&country, "country", "us", "Holiday calendar country code.")
	cmd.Flags().BoolVar(&save, "save", false, "Save the suggestions as disabled closing records.")
	return cmd
}

// upcomingClosings keeps enabled records whose start bound is still
// ahead of now. Records without a parsable start are never upcoming.
func upcomingClosings(closings []domain.ClosingRecord, now time.Time) []domain.ClosingRecord {
	upcoming := make([]domain.ClosingRecord, 0, len(closings))
	for _, closing := range closings {
		if !closing.IsActive || closing.StartDate == nil {
			continue
		}
		start, ok := parseClosingBound(*closing.StartDate)
		if !ok || !start.After(now) {
			continue
		}
		upcoming = append(upcoming, closing)
	}
	if len(upcoming) == 0 {
		return nil
	}
	return upcoming
}

func parseClosingBound(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", trimmed); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// normalizeBoundFlag validates a closing bound and returns nil for an
// omitted one.
func normalizeBoundFlag(raw string, flagName string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &trimmed, nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err == nil {
		return &trimmed, nil
	}
	return nil, fmt.Errorf("%s must be RFC 3339 or YYYY-MM-DD", flagName)
}
