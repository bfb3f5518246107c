package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tavolohq/tavolo/internal/domain"
)

func newConfigureCommand(deps Dependencies) *cobra.Command {
	var restaurantName string
	var timezone string
	var locale string
	var dataDir string
	var redisAddr string
	var redisPassword string
	var redisDB int
	var listen string
	var adminToken string
	var publishToken string
	var publishLocation string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Create and manage local restaurant profiles.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			existingCfg, loadErr := deps.Config.Load(cmd.Context())
			hasExisting := loadErr == nil
			if hasExisting && !overwrite {
				index := findRestaurantIndex(existingCfg, restaurantName)
				if index < 0 {
					existingCfg.Restaurants = append(existingCfg.Restaurants, newRestaurantProfile(
						restaurantName, timezone, locale, dataDir, redisAddr, redisPassword, redisDB, listen, adminToken, publishToken, publishLocation,
						len(existingCfg.Restaurants) == 0,
					))
					if err := deps.Config.Save(cmd.Context(), existingCfg); err != nil {
						return err
					}
					return writeTable(cmd, fmt.Sprintf("Added restaurant %q to %s", strings.TrimSpace(restaurantName), deps.Config.Path()), "")
				}
				applyProfileUpdates(&existingCfg.Restaurants[index], timezone, locale, dataDir, redisAddr, redisPassword, redisDB, listen, adminToken, publishToken, publishLocation, cmd)
				if err := deps.Config.Save(cmd.Context(), existingCfg); err != nil {
					return err
				}
				return writeTable(cmd, fmt.Sprintf("Updated restaurant %q in %s", existingCfg.Restaurants[index].Name, deps.Config.Path()), "")
			}

			cfg := domain.Config{
				Restaurants: []domain.Restaurant{
					newRestaurantProfile(
						restaurantName, timezone, locale, dataDir, redisAddr, redisPassword, redisDB, listen, adminToken, publishToken, publishLocation,
						true,
					),
				},
			}
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}
			return writeTable(cmd, fmt.Sprintf("Config created at %s", deps.Config.Path()), "")
		},
	}

	cmd.Flags().StringVar(&restaurantName, "restaurant-name", "Default", "Restaurant profile name.")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone the venue operates in, for example Europe/Helsinki.")
	cmd.Flags().StringVar(&locale, "locale", "", "Default status phrase locale: en, fi, or it.")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for the flat-file dataset backend.")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address, for example localhost:6379. Enables the hosted backend.")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password, if required.")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number.")
	cmd.Flags().StringVar(&listen, "listen", "", "Default admin API listen address for serve.")
	cmd.Flags().StringVar(&adminToken, "admin-token", "", "Bearer token protecting mutating admin API routes.")
	cmd.Flags().StringVar(&publishToken, "publish-token", "", "Business profile API token for sync push.")
	cmd.Flags().StringVar(&publishLocation, "publish-location", "", "Business profile location ID for sync push.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the whole config instead of updating one profile.")
	return cmd
}

func newRestaurantProfile(
	name, timezone, locale, dataDir, redisAddr, redisPassword string, redisDB int,
	listen, adminToken, publishToken, publishLocation string,
	isDefault bool,
) domain.Restaurant {
	return domain.Restaurant{
		Name:       strings.TrimSpace(name),
		IsDefault:  isDefault,
		Timezone:   strings.TrimSpace(timezone),
		Locale:     strings.TrimSpace(locale),
		DataDir:    strings.TrimSpace(dataDir),
		Redis:      domain.RedisSettings{Addr: strings.TrimSpace(redisAddr), Password: redisPassword, DB: redisDB},
		Listen:     strings.TrimSpace(listen),
		AdminToken: strings.TrimSpace(adminToken),
		Publish: domain.PublishSettings{
			Token:      strings.TrimSpace(publishToken),
			LocationID: strings.TrimSpace(publishLocation),
		},
	}
}

// applyProfileUpdates only touches fields whose flags were set, so a
// partial configure call leaves the rest of the profile alone.
func applyProfileUpdates(
	restaurant *domain.Restaurant,
	timezone, locale, dataDir, redisAddr, redisPassword string, redisDB int,
	listen, adminToken, publishToken, publishLocation string,
	cmd *cobra.Command,
) {
	if cmd.Flags().Changed("timezone") {
		restaurant.Timezone = strings.TrimSpace(timezone)
	}
	if cmd.Flags().Changed("locale") {
		restaurant.Locale = strings.TrimSpace(locale)
	}
	if cmd.Flags().Changed("data-dir") {
		restaurant.DataDir = strings.TrimSpace(dataDir)
	}
	if cmd.Flags().Changed("redis-addr") {
		restaurant.Redis.Addr = strings.TrimSpace(redisAddr)
	}
	if cmd.Flags().Changed("redis-password") {
		restaurant.Redis.Password = redisPassword
	}
	if cmd.Flags().Changed("redis-db") {
		restaurant.Redis.DB = redisDB
	}
	if cmd.Flags().Changed("listen") {
		restaurant.Listen = strings.TrimSpace(listen)
	}
	if cmd.Flags().Changed("admin-token") {
		restaurant.AdminToken = strings.TrimSpace(adminToken)
	}
	if cmd.Flags().Changed("publish-token") {
		restaurant.Publish.Token = strings.TrimSpace(publishToken)
	}
	if cmd.Flags().Changed("publish-location") {
		restaurant.Publish.LocationID = strings.TrimSpace(publishLocation)
	}
}

func findRestaurantIndex(cfg domain.Config, restaurantName string) int {
	trimmed := strings.TrimSpace(restaurantName)
	if trimmed != "" {
		for i, restaurant := range cfg.Restaurants {
			if strings.EqualFold(strings.TrimSpace(restaurant.Name), trimmed) {
				return i
			}
		}
	}
	return -1
}
