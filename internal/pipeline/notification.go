package pipeline

import (
	"net/url"

	"health-content-web/internal/domain"
)

// notification builds the Slack payload for this run. Without a draft the topic stands in for the title.
func (e *contentExecution) notification(workflowStatus string) domain.NotificationRequest {
	title := e.draftTitle
	if title == "" {
		title = e.payload.Topic
	}
	return domain.NotificationRequest{
		RequestID:      e.payload.RequestID,
		Topic:          e.payload.Topic,
		TargetTitle:    title,
		WorkflowStatus: workflowStatus,
	}
}

// draftURL is the API location of the draft, or "" when no draft exists yet.
func (e *contentExecution) draftURL() string {
	if e.draftID == "" || e.pipeline.cfg == nil {
		return ""
	}
	u, err := url.JoinPath(e.pipeline.cfg.ServiceURL, "v1", "drafts", e.draftID)
	if err != nil {
		return ""
	}
	return u
}
