package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"health-content-web/internal/domain"

	"github.com/slack-go/slack"
)

const (
	slackTimeout      = 10 * time.Second
	slackColorSuccess = "good"
	slackColorWarning = "warning"
	slackColorDanger  = "danger"
)

// --- Interface ---

type SlackNotifier interface {
	Notify(ctx context.Context, draftURL string, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- Adapter ---

// SlackAdapter posts pipeline outcomes to an incoming webhook. An empty webhook URL disables it.
type SlackAdapter struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackAdapter(webhookURL string) *SlackAdapter {
	return &SlackAdapter{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: slackTimeout},
	}
}

// Notify sends the completion message with the draft location and its review routing.
func (a *SlackAdapter) Notify(ctx context.Context, draftURL string, req domain.NotificationRequest) error {
	if a.webhookURL == "" {
		slog.Info("Slack webhook not configured, skipping notification", "request_id", req.RequestID)
		return nil
	}

	color := slackColorWarning
	title := "📝 Draft returned for AI revision"
	if req.WorkflowStatus == string(domain.WorkflowStaffReview) {
		color = slackColorSuccess
		title = "✅ Draft ready for staff review"
	}

	fields := []slack.AttachmentField{
		{Title: "Title", Value: req.TargetTitle},
		{Title: "Topic", Value: req.Topic, Short: true},
		{Title: "Workflow status", Value: valueOrNA(req.WorkflowStatus), Short: true},
	}
	if draftURL != "" {
		fields = append(fields, slack.AttachmentField{Title: "Draft", Value: fmt.Sprintf("<%s|Open draft>", draftURL)})
	}

	msg := &slack.WebhookMessage{
		Text: title,
		Attachments: []slack.Attachment{{
			Color:    color,
			Fallback: title + ": " + req.TargetTitle,
			Fields:   fields,
			Footer:   "request " + req.RequestID,
		}},
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, a.webhookURL, a.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post Slack notification: %w", err)
	}

	slog.Info("Slack completion notification sent", "request_id", req.RequestID)
	return nil
}

// NotifyError sends the failure message with the stage that failed and the error detail.
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.webhookURL == "" {
		slog.Info("Slack webhook not configured, skipping error notification", "request_id", req.RequestID, "error", errDetail)
		return nil
	}

	title := "❌ Content generation failed"
	msg := &slack.WebhookMessage{
		Text: title,
		Attachments: []slack.Attachment{{
			Color:    slackColorDanger,
			Fallback: title + ": " + req.Topic,
			Fields: []slack.AttachmentField{
				{Title: "Topic", Value: req.Topic},
				{Title: "Failed stage", Value: valueOrNA(req.FailedStage), Short: true},
				{Title: "Draft", Value: valueOrNA(req.TargetTitle), Short: true},
			},
			// Code block keeps wrapped error chains readable.
			Text:       fmt.Sprintf("```\n%v\n```", errDetail),
			MarkdownIn: []string{"text"},
			Footer:     "request " + req.RequestID,
		}},
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, a.webhookURL, a.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post Slack error notification: %w", err)
	}

	slog.Info("Slack error notification sent", "request_id", req.RequestID)
	return nil
}

func valueOrNA(v string) string {
	if v == "" {
		return domain.NotAvailable
	}
	return v
}
