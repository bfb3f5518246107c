package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/service/i18n"
	"github.com/tavolohq/tavolo/internal/storage"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// RestaurantResolver resolves restaurant profile selections.
type RestaurantResolver interface {
	Find(ctx context.Context, name string) (domain.Restaurant, error)
}

// ConfigManager stores restaurant config payloads.
type ConfigManager interface {
	Path() string
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

// StoreProvider opens the dataset backend for a restaurant profile.
type StoreProvider interface {
	For(restaurant domain.Restaurant) (storage.Store, error)
}

// Dependencies wires runtime services.
type Dependencies struct {
	Restaurants RestaurantResolver
	Config      ConfigManager
	Stores      StoreProvider
	Publisher   business.Publisher
	Translator  *i18n.Translator
	Clock       func() time.Time
	Version     string
}

func (d Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || err == errVersionShown {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
