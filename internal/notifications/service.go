package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cadence/internal/config"
)

const userAgent = "Cadence/0.1.0"

// Service defines the push notification surface. Acquisition and reconcile
// notifications are individually gated by configuration.
type Service interface {
	NotifyAcquisitionStarted(ctx context.Context, locator string) error
	NotifyAcquisitionCompleted(ctx context.Context, playlistName string, trackCount int) error
	NotifyAcquisitionFailed(ctx context.Context, locator, cause string) error
	NotifyReconcileCompleted(ctx context.Context, manifestName string, high, medium, unmatched int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		acquisition: cfg.Notifications.Acquisition,
		reconcile:   cfg.Notifications.Reconcile,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	acquisition bool
	reconcile   bool
}

func (n *ntfyService) NotifyAcquisitionStarted(ctx context.Context, locator string) error {
	if !n.acquisition {
		return nil
	}
	data := payload{
		title:   "Cadence - Fetch Started",
		message: fmt.Sprintf("Fetching: %s", strings.TrimSpace(locator)),
		tags:    []string{"cadence", "acquire", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAcquisitionCompleted(ctx context.Context, playlistName string, trackCount int) error {
	if !n.acquisition {
		return nil
	}
	data := payload{
		title:   "Cadence - Fetch Complete",
		message: fmt.Sprintf("Added %d tracks to %s", trackCount, strings.TrimSpace(playlistName)),
		tags:    []string{"cadence", "acquire", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAcquisitionFailed(ctx context.Context, locator, cause string) error {
	if !n.acquisition {
		return nil
	}
	data := payload{
		title:    "Cadence - Fetch Failed",
		message:  fmt.Sprintf("Fetch failed: %s\n%s", strings.TrimSpace(locator), strings.TrimSpace(cause)),
		tags:     []string{"cadence", "acquire", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReconcileCompleted(ctx context.Context, manifestName string, high, medium, unmatched int) error {
	if !n.reconcile {
		return nil
	}
	data := payload{
		title: "Cadence - Reconcile Complete",
		message: fmt.Sprintf("%s: %d high, %d medium, %d unmatched",
			strings.TrimSpace(manifestName), high, medium, unmatched),
		tags: []string{"cadence", "reconcile", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Cadence - Error",
		message:  builder.String(),
		tags:     []string{"cadence", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Cadence - Test",
		message:  "Notification system test",
		tags:     []string{"cadence", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAcquisitionStarted(context.Context, string) error               { return nil }
func (noopService) NotifyAcquisitionCompleted(context.Context, string, int) error        { return nil }
func (noopService) NotifyAcquisitionFailed(context.Context, string, string) error        { return nil }
func (noopService) NotifyReconcileCompleted(context.Context, string, int, int, int) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                     { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
