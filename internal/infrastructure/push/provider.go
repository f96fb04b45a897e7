package push

import "context"

// Provider sends a push notification to a single device.
// Implementations must be safe for concurrent use.
type Provider interface {
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]interface{}) (messageID string, err error)
}
