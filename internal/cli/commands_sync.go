package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/service/output"
)

func newSyncCommand(deps Dependencies) *cobra.Command {
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Publish local data to the business profile upstream.",
	}
	sync.AddCommand(newSyncPushCommand(deps))
	return sync
}

func newSyncPushCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var token string
	var locationID string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the weekly hours and closings to the business profile.",
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

			auth := business.AuthContext{Token: strings.TrimSpace(token)}
			if auth.Token == "" {
				auth.Token = strings.TrimSpace(restaurant.Publish.Token)
			}
			resolvedLocation := strings.TrimSpace(locationID)
			if resolvedLocation == "" {
				resolvedLocation = strings.TrimSpace(restaurant.Publish.LocationID)
			}
			if !auth.HasCredentials() {
				return emitError(
					cmd,
					format,
					restaurant.Name,
					locale,
					flags.Output,
					"TAVOLO_AUTH_REQUIRED",
					"Publishing requires a token. Provide --token or save one with configure.",
				)
			}
			if resolvedLocation == "" {
				return emitError(
					cmd,
					format,
					restaurant.Name,
					locale,
					flags.Output,
					"TAVOLO_INVALID_ARGUMENT",
					"Publishing requires a location ID. Provide --location-id or save one with configure.",
				)
			}

			weekly, warnings, err := loadHoursLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}
			closings, err := loadClosingsLenient(cmd.Context(), store)
			if err != nil {
				return emitError(cmd, format, restaurant.Name, locale, flags.Output, "TAVOLO_STORAGE_ERROR", err.Error())
			}

			payload := business.PublishPayload{Hours: weekly, Closings: closings}
			result, err := deps.Publisher.PublishHours(cmd.Context(), resolvedLocation, payload, auth)
			if err != nil {
				return emitUpstreamError(cmd, format, restaurant.Name, locale, flags.Output, flags.Verbose, err)
			}

			if format == output.FormatTable {
				text := "published: " + result.Status
				if result.UpdatedAt != "" {
					text += " at " + result.UpdatedAt
				}
				for _, warning := range warnings {
					text += "\nwarning: " + warning
				}
				return writeTable(cmd, text, flags.Output)
			}
			env := output.BuildEnvelope(restaurant.Name, locale, map[string]any{"result": result}, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	cmd.Flags().StringVar(&token, "token", "", "Business profile API token. Defaults to the profile's saved token.")
	cmd.Flags().StringVar(&locationID, "location-id", "", "Business profile location ID. Defaults to the profile's saved ID.")
	return cmd
}
