package business

import (
	"context"
	"strings"

	"github.com/tavolohq/tavolo/internal/domain"
)

// AuthContext stores credentials for the listing service.
type AuthContext struct {
	Token string
}

// HasCredentials reports whether a token is provided.
func (a AuthContext) HasCredentials() bool {
	return strings.TrimSpace(a.Token) != ""
}

// PublishPayload is the hour bundle pushed to the listing service. The
// wire format mirrors the persisted content shape; the remote protocol
// itself is opaque to this client.
type PublishPayload struct {
	Hours    domain.WeeklySchedule  `json:"hours"`
	Closings []domain.ClosingRecord `json:"closings"`
}

// PublishResult stores the upstream acknowledgement.
type PublishResult struct {
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Publisher describes the business-profile upstream operations.
type Publisher interface {
	PublishHours(ctx context.Context, locationID string, payload PublishPayload, auth AuthContext) (PublishResult, error)
}
