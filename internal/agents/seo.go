package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"health-content-web/internal/ai"
	"health-content-web/internal/domain"
	"health-content-web/internal/store"
)

const (
	SEOThreshold = 80

	seoBaseScore      = 50
	titleTagLength    = 60
	fallbackSlugLimit = 50
)

type InternalLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type SEOResult struct {
	TitleTag        string         `json:"title_tag"`
	MetaDescription string         `json:"meta_description"`
	URLSlug         string         `json:"url_slug"`
	InternalLinks   []InternalLink `json:"internal_links"`
	SEOScore        int            `json:"seo_score"`
	Passed          bool           `json:"passed"`
	Fallback        bool           `json:"fallback"`
}

type seoResponse struct {
	TitleTag        string         `json:"title_tag"`
	MetaDescription string         `json:"meta_description"`
	URLSlug         string         `json:"url_slug"`
	InternalLinks   []InternalLink `json:"internal_links"`
	SEOScore        *int           `json:"seo_score"`
}

func (r *seoResponse) Validate() error {
	if strings.TrimSpace(r.MetaDescription) == "" {
		return errors.New("meta_description is required")
	}
	return checkScore("seo_score", r.SEOScore)
}

// SEOAgent optimizes draft metadata and records the seo_score gate.
type SEOAgent struct {
	store store.Store
	llm   ai.TextGenerator
}

func NewSEOAgent(s store.Store, llm ai.TextGenerator) *SEOAgent {
	return &SEOAgent{store: s, llm: llm}
}

// Run fails when the draft is missing or cannot be updated, or the run is cancelled.
func (a *SEOAgent) Run(ctx context.Context, draftID string) (SEOResult, error) {
	draft, err := a.store.GetDraft(ctx, draftID)
	if err != nil {
		return SEOResult{}, err
	}

	result, err := a.optimize(ctx, draft)
	if err != nil {
		return SEOResult{}, err
	}
	result.Passed = result.SEOScore >= SEOThreshold

	meta := result.MetaDescription
	score := result.SEOScore
	if err := a.store.UpdateDraft(ctx, draftID, store.DraftUpdate{
		MetaDescription: &meta,
		SEOScore:        &score,
	}); err != nil {
		return result, err
	}

	gate := &domain.QualityGate{
		RequestID: draftID,
		GateName:  domain.GateSEOScore,
		Passed:    result.Passed,
		Value:     map[string]any{"score": result.SEOScore},
		Threshold: map[string]any{"min": SEOThreshold},
	}
	if err := a.store.UpsertGate(ctx, gate); err != nil {
		return result, err
	}
	return result, nil
}

func (a *SEOAgent) optimize(ctx context.Context, draft *domain.Draft) (SEOResult, error) {
	raw, err := a.llm.Complete(ctx, ai.Prompt{
		System:      seoSystemPrompt,
		User:        seoPrompt(draft.Title, draft.Content),
		Temperature: 0.3,
		MaxTokens:   1000,
		JSON:        true,
	})
	if err == nil {
		var resp seoResponse
		if resp, err = ai.DecodeJSON[seoResponse](raw); err == nil {
			return SEOResult{
				TitleTag:        resp.TitleTag,
				MetaDescription: resp.MetaDescription,
				URLSlug:         resp.URLSlug,
				InternalLinks:   resp.InternalLinks,
				SEOScore:        *resp.SEOScore,
			}, nil
		}
	}
	if !ai.IsFallbackCause(err) {
		return SEOResult{}, fmt.Errorf("failed to optimize draft %s: %w", draft.ID, err)
	}

	slog.WarnContext(ctx, "SEO stage using heuristic score", "agent", "seo", "draft_id", draft.ID, "error", err)
	return BasicSEO(draft.Title, draft.MetaDescription, draft.Content), nil
}

// BasicSEO scores a draft without a model and templates its metadata from the title.
func BasicSEO(title, metaDescription, content string) SEOResult {
	score := seoBaseScore
	if n := utf8.RuneCountInString(title); n >= 30 && n <= 60 {
		score += 10
	}
	if metaDescription != "" {
		score += 10
	}
	contentLen := utf8.RuneCountInString(content)
	if contentLen > 1500 {
		score += 15
	}
	if contentLen > 2500 {
		score += 10
	}
	if strings.Contains(content, "## ") {
		score += 5
	}

	return SEOResult{
		TitleTag:        truncateRunes(title, titleTagLength),
		MetaDescription: "Learn about " + title + ". Expert care at " + BrandName + ".",
		URLSlug:         slugPrefix + truncateRunes(strings.ReplaceAll(strings.ToLower(title), " ", "-"), fallbackSlugLimit),
		InternalLinks: []InternalLink{
			{Text: BrandName + " Services", URL: "/services"},
			{Text: "Schedule Appointment", URL: "/appointment"},
		},
		SEOScore: min(score, 100),
		Fallback: true,
	}
}
