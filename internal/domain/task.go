package domain

// GenerateTaskPayload carries one generation request to the pipeline runner.
type GenerateTaskPayload struct {
	// RequestID is the id of the generation_requests row the run reports progress on.
	RequestID string `json:"request_id"`
	// Topic is the subject the article is written about.
	Topic string `json:"topic"`
	// CategoryID references the blog category the draft is filed under.
	CategoryID string `json:"category_id"`
	// Keywords are the SEO keywords, the first one being the primary keyword.
	Keywords []string `json:"keywords"`
}
