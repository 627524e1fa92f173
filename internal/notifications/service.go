package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mdxport/internal/config"
)

const userAgent = "mdxport/0.1.0"

// Service defines the notification surface the export scheduler uses.
type Service interface {
	NotifyExportStarted(ctx context.Context, mode string, totalFrames int) error
	NotifyExportCompleted(ctx context.Context, artifact string, elapsed time.Duration) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
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
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		completion: cfg.Notifications.Completion,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	completion bool
	errors     bool
}

func (n *ntfyService) NotifyExportStarted(ctx context.Context, mode string, totalFrames int) error {
	if !n.completion {
		return nil
	}
	mode = strings.TrimSpace(mode)
	data := payload{
		title:   "mdxport - Export Started",
		message: fmt.Sprintf("Started %s export, %d frames", mode, totalFrames),
		tags:    []string{"mdxport", "export", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, artifact string, elapsed time.Duration) error {
	if !n.completion {
		return nil
	}
	elapsed = elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	message := fmt.Sprintf("Export complete in %s", elapsed)
	if artifact = strings.TrimSpace(artifact); artifact != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, artifact)
	}
	data := payload{
		title:    "mdxport - Export Complete",
		message:  message,
		tags:     []string{"mdxport", "export", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Export failed")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "mdxport - Error",
		message:  builder.String(),
		tags:     []string{"mdxport", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "mdxport - Test",
		message:  "Notification system test",
		tags:     []string{"mdxport", "test"},
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

func (noopService) NotifyExportStarted(context.Context, string, int) error             { return nil }
func (noopService) NotifyExportCompleted(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                   { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
