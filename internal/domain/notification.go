package domain

// NotAvailable stands in for empty fields of a notification.
const NotAvailable = "N/A"

// NotificationRequest is the data shared with notification components such as Slack.
// It tells the channel which draft a pipeline run produced and how it ended.
type NotificationRequest struct {
	// RequestID is the generation request the run belongs to.
	RequestID string `json:"request_id"`

	// Topic is the requested article topic.
	Topic string `json:"topic"`

	// TargetTitle is the draft title, or the topic when no draft was written.
	TargetTitle string `json:"target_title"`

	// WorkflowStatus is the draft status the approver decided on. (e.g. "staff_review", "ai_review")
	WorkflowStatus string `json:"workflow_status"`

	// FailedStage is the pipeline status active when the run failed.
	FailedStage string `json:"failed_stage"`
}
