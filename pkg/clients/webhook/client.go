package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client pushes a (title, message) pair to a notification webhook.
type Client interface {
	Send(ctx context.Context, title, message string) error
}

// APIClient is a resty-backed implementation of Client. It speaks the ntfy
// convention when the URL looks like an ntfy topic and falls back to the
// gotify message endpoint otherwise.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the configured URL.
func NewClient(url string) *APIClient {
	restyClient := resty.New()
	restyClient.SetTimeout(10 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		url:        strings.TrimSuffix(url, "/"),
	}
}

// Send delivers one notification.
func (c *APIClient) Send(ctx context.Context, title, message string) error {
	var resp *resty.Response
	var err error

	if strings.Contains(c.url, "ntfy.sh") {
		resp, err = c.httpClient.R().
			SetContext(ctx).
			SetHeader("Title", title).
			SetBody(message).
			Post(c.url)
	} else {
		resp, err = c.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{
				"title":    title,
				"message":  message,
				"priority": 5,
			}).
			Post(fmt.Sprintf("%s/message", c.url))
	}
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	return nil
}
