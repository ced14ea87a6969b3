package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"health-content-web/internal/ai"
	"health-content-web/internal/store"
)

const maxResearchIdeas = 3

// Idea is one content opportunity suggested by the research stage.
type Idea struct {
	Title          string   `json:"title"`
	PrimaryKeyword string   `json:"primary_keyword"`
	ContentAngle   string   `json:"content_angle"`
	TargetServices []string `json:"target_services"`
}

type ResearchInput struct {
	Topic    string
	Keywords []string
}

type ResearchResult struct {
	Topics   []Idea `json:"topics"`
	Fallback bool   `json:"fallback"`
}

type researchResponse struct {
	Topics []Idea `json:"topics"`
}

func (r *researchResponse) Validate() error {
	if len(r.Topics) == 0 {
		return errors.New("topics is empty")
	}
	for i, t := range r.Topics {
		if t.Title == "" {
			return fmt.Errorf("topics[%d].title is required", i)
		}
	}
	return nil
}

// ResearchAgent suggests article ideas that avoid existing draft titles.
type ResearchAgent struct {
	store store.Store
	llm   ai.TextGenerator
}

func NewResearchAgent(s store.Store, llm ai.TextGenerator) *ResearchAgent {
	return &ResearchAgent{store: s, llm: llm}
}

// Run never fails. Any AI problem yields a single idea built from the input.
func (a *ResearchAgent) Run(ctx context.Context, in ResearchInput) ResearchResult {
	existing, err := a.store.ListDraftTitles(ctx, excludedTitleLimit)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load existing titles, researching without exclusions", "error", err)
		existing = nil
	}

	raw, err := a.llm.Complete(ctx, ai.Prompt{
		System:      researchSystemPrompt,
		User:        researchPrompt(in.Topic, in.Keywords, existing),
		Temperature: 0.7,
		MaxTokens:   500,
		JSON:        true,
	})
	if err == nil {
		var resp researchResponse
		if resp, err = ai.DecodeJSON[researchResponse](raw); err == nil {
			topics := resp.Topics
			if len(topics) > maxResearchIdeas {
				topics = topics[:maxResearchIdeas]
			}
			return ResearchResult{Topics: topics}
		}
	}

	slog.WarnContext(ctx, "Research stage using fallback idea", "agent", "research", "error", err)
	return ResearchResult{Topics: []Idea{fallbackIdea(in)}, Fallback: true}
}

func fallbackIdea(in ResearchInput) Idea {
	keyword := in.Topic
	if len(in.Keywords) > 0 && in.Keywords[0] != "" {
		keyword = in.Keywords[0]
	}
	return Idea{
		Title:          in.Topic,
		PrimaryKeyword: keyword,
		ContentAngle:   "General overview",
		TargetServices: []string{"General Medicine"},
	}
}
