package notification

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NtfyClient sends notifications to an ntfy server topic.
type NtfyClient struct {
	server string
	topic  string
	client *http.Client
}

// NewNtfyClient creates a new ntfy client for the given server and topic.
func NewNtfyClient(server, topic string) *NtfyClient {
	return &NtfyClient{
		server: strings.TrimRight(server, "/"),
		topic:  topic,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send publishes the notification to the topic.
func (c *NtfyClient) Send(notification Notification) error {
	if c.topic == "" {
		return fmt.Errorf("ntfy topic not configured")
	}

	url := c.server + "/" + c.topic
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(notification.Message))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Title", notification.Title)
	if notification.Kind != "" {
		req.Header.Set("Tags", notification.Kind)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy server returned status %d", resp.StatusCode)
	}

	return nil
}
