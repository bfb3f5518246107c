package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tavolohq/tavolo/internal/cli"
	"github.com/tavolohq/tavolo/internal/config"
	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/service/i18n"
	"github.com/tavolohq/tavolo/internal/service/profile"
	"github.com/tavolohq/tavolo/internal/storage"
)

var version = "dev"

func main() {
	store, err := config.NewStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	deps := cli.Dependencies{
		Restaurants: profile.NewResolver(store),
		Config:      store,
		Stores:      storeProvider{},
		Publisher:   business.NewClient(),
		Translator:  i18n.New(),
		Version:     version,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// storeProvider builds the dataset backend chain for a profile: the
// hosted key-value store first when configured, then flat JSON files.
type storeProvider struct{}

func (storeProvider) For(restaurant domain.Restaurant) (storage.Store, error) {
	fileStore := storage.NewFileStore(resolveDataDir(restaurant))
	if strings.TrimSpace(restaurant.Redis.Addr) == "" {
		return fileStore, nil
	}
	redisStore := storage.NewRedisStore(restaurant.Redis)
	return storage.NewChain(redisStore, fileStore), nil
}

func resolveDataDir(restaurant domain.Restaurant) string {
	if dir := strings.TrimSpace(restaurant.DataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tavolo-data"
	}
	name := strings.ToLower(strings.TrimSpace(restaurant.Name))
	if name == "" {
		name = "default"
	}
	return filepath.Join(home, ".tavolo", "data", name)
}
