package ports

import (
	"context"

	"autoriza/internal/authorization/notification"
)

// NotificationTransport delivers one notification over one channel to a
// beneficiary or a provider. Fire-and-forget from the engine's point of
// view: a failed send is reported to the caller, never retried here.
type NotificationTransport interface {
	// Send delivers the payload and returns the transport's delivery id.
	Send(ctx context.Context, recipient string, kind notification.RecipientKind, channel notification.Channel, payload []byte) (string, error)
}
