package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

const userAgent = "PodditAPI/1.0"

// Notifier defines the delivery surface for episode lifecycle events.
// Failures are the caller's to log; a generation run never depends on a
// notification succeeding.
type Notifier interface {
	NotifyEpisodeReady(ctx context.Context, episode *models.Episode, topic string) error
	NotifyGenerationFailed(ctx context.Context, userID uint, topic string, cause error) error
}

// NewNotifier builds an ntfy-backed notifier when an endpoint is configured.
// With no endpoint, a noop implementation is returned.
func NewNotifier(endpoint string, timeout time.Duration) Notifier {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return noopNotifier{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyNotifier{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyNotifier struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyNotifier) NotifyEpisodeReady(ctx context.Context, episode *models.Episode, topic string) error {
	title := strings.TrimSpace(episode.Title)
	if title == "" {
		title = fmt.Sprintf("Episode %d", episode.ID)
	}

	minutes := int(episode.Duration) / 60
	seconds := int(episode.Duration) % 60

	data := payload{
		title:    "Poddit - Episode Ready",
		message:  fmt.Sprintf("%s\n%d signals, %d:%02d", title, episode.SignalCount, minutes, seconds),
		tags:     []string{"poddit", "episode", "ready"},
		priority: "high",
	}
	return n.send(ctx, topic, data)
}

func (n *ntfyNotifier) NotifyGenerationFailed(ctx context.Context, userID uint, topic string, cause error) error {
	message := "unknown error"
	if cause != nil {
		message = strings.TrimSpace(cause.Error())
	}

	data := payload{
		title:   "Poddit - Generation Failed",
		message: fmt.Sprintf("Episode generation for user %d failed: %s", userID, message),
		tags:    []string{"poddit", "episode", "failed"},
	}
	return n.send(ctx, topic, data)
}

func (n *ntfyNotifier) send(ctx context.Context, topic string, data payload) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}

	url := n.endpoint + "/" + topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notification endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyEpisodeReady(context.Context, *models.Episode, string) error { return nil }
func (noopNotifier) NotifyGenerationFailed(context.Context, uint, string, error) error { return nil }
