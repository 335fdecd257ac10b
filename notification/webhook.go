package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier POSTs each event as JSON.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookNotifier returns nil when url is empty.
func NewWebhookNotifier(url, token string, timeout time.Duration) *WebhookNotifier {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookNotifier{httpClient: client, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, evt Event) error {
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(evt).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post webhook for %s: %w", evt.Type, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected %s: status=%d body=%s", evt.Type, resp.StatusCode(), resp.String())
	}
	return nil
}
