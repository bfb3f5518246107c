package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/schedule"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/storage"
)

func newMessagesCommand(deps Dependencies) *cobra.Command {
	messages := &cobra.Command{
		Use:   "messages",
		Short: "Manage special messages shown alongside the status.",
	}
	messages.AddCommand(newMessagesListCommand(deps))
	messages.AddCommand(newMessagesSetCommand(deps))
	messages.AddCommand(newMessagesRemoveCommand(deps))
	return messages
}

func newMessagesListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var activeOnly bool
	var at string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List special messages.",
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

			messages, err := loadMessagesLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}
			if activeOnly {
				messages = schedule.ActiveMessages(messages, now)
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(messages))
				for _, message := range messages {
					active := "no"
					if message.IsActive {
						active = "yes"
					}
					rows = append(rows, []string{message.ID, message.FormatSeverity(), message.Text, message.FormatWindow(), active})
				}
				text := output.RenderTable("", []string{"id", "severity", "text", "window", "active"}, rows)
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}

			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{"messages": messages}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Show only messages active at the evaluated moment.")
	cmd.Flags().StringVar(&at, "at", "", "Evaluate --active at this moment instead of now.")
	return cmd
}

func newMessagesSetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var id string
	var text string
	var severity string
	var start string
	var end string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create a special message, or update one by ID.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%s", requiredArg("--text"))
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

			messages, err := loadMessagesLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			record := domain.SpecialMessage{
				ID:        strings.TrimSpace(id),
				Text:      strings.TrimSpace(text),
				Severity:  strings.ToLower(strings.TrimSpace(severity)),
				IsActive:  !inactive,
				StartDate: startBound,
				EndDate:   endBound,
			}
			if record.ID == "" {
				record.ID = output.NewRecordID("msg")
				messages = append(messages, record)
			} else {
				index := -1
				for i, message := range messages {
					if message.ID == record.ID {
						index = i
						break
					}
				}
				if index < 0 {
					return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_NOT_FOUND", fmt.Sprintf("message %q not found", record.ID))
				}
				messages[index] = record
			}

			if err := store.SaveMessages(cmd.Context(), messages); err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				return writeTable(cmd, fmt.Sprintf("saved %s [%s]: %s", record.ID, record.FormatSeverity(), record.Text), flags.Output)
			}
			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{"message": record}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&id, "id", "", "Existing message ID to update. Omit to create a new message.")
	cmd.Flags().StringVar(&text, "text", "", "Message text shown to guests.")
	cmd.Flags().StringVar(&severity, "severity", "info", "Message severity: info, warning, or critical.")
	cmd.Flags().StringVar(&start, "start", "", "First displayed moment (RFC 3339 or YYYY-MM-DD). Omit to always show.")
	cmd.Flags().StringVar(&end, "end", "", "Last displayed moment (RFC 3339 or YYYY-MM-DD). Omit to always show.")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Store the message disabled.")
	return cmd
}

func newMessagesRemoveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a special message by ID.",
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

			messages, err := store.LoadMessages(cmd.Context())
			if errors.Is(err, storage.ErrNotFound) {
				messages = nil
			} else if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			kept := make([]domain.SpecialMessage, 0, len(messages))
			found := false
			for _, message := range messages {
				if message.ID == id {
					found = true
					continue
				}
				kept = append(kept, message)
			}
			if !found {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_NOT_FOUND", fmt.Sprintf("message %q not found", id))
			}
			if err := store.SaveMessages(cmd.Context(), kept); err != nil {
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
	cmd.Flags().StringVar(&id, "id", "", "Message ID, as shown by messages list.")
	return cmd
}
