package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"health-content-web/internal/ai"
	"health-content-web/internal/domain"
	"health-content-web/internal/store"
)

const (
	slugPrefix          = "/blogs/"
	minReadTimeMinutes  = 5
	wordsPerMinute      = 200
	excerptLength       = 200
	metaLength          = 160
	skeletonTitle       = "Generated Article"
	skeletonDisclaimer  = "This content is for informational purposes only."
	contentSectionBreak = "\n\n"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// Article is the structured long-form answer of the writer model.
type Article struct {
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Intro             Intro            `json:"intro"`
	Sections          []ArticleSection `json:"sections"`
	Conclusion        Conclusion       `json:"conclusion"`
	FAQ               []FAQ            `json:"faq"`
	MedicalDisclaimer string           `json:"medical_disclaimer"`
	WordCount         int              `json:"word_count"`
}

type Intro struct {
	Hook    string `json:"hook"`
	Problem string `json:"problem"`
	Preview string `json:"preview"`
}

type ArticleSection struct {
	Heading    string   `json:"h2"`
	Paragraphs []string `json:"paragraphs"`
}

type Conclusion struct {
	Summary string `json:"summary"`
	CTA     string `json:"cta"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title is required")
	}
	for i, s := range a.Sections {
		if strings.TrimSpace(s.Heading) == "" {
			return fmt.Errorf("sections[%d].h2 is required", i)
		}
	}
	if a.WordCount < 0 {
		return errors.New("word_count must not be negative")
	}
	return nil
}

func skeletonArticle() Article {
	return Article{
		Title:             skeletonTitle,
		Slug:              "generated-article",
		MedicalDisclaimer: skeletonDisclaimer,
	}
}

type WriterInput struct {
	Topic      string
	CategoryID string
	Keywords   []string
	// Idea is the research suggestion steering the article, if any.
	Idea *Idea
}

type WriterResult struct {
	DraftID   string           `json:"draft_id"`
	Title     string           `json:"title"`
	Sections  []ArticleSection `json:"sections"`
	WordCount int              `json:"word_count"`
	Fallback  bool             `json:"fallback"`
}

// WriterAgent writes the article and persists it as a draft with its sections.
type WriterAgent struct {
	store store.Store
	llm   ai.TextGenerator
}

func NewWriterAgent(s store.Store, llm ai.TextGenerator) *WriterAgent {
	return &WriterAgent{store: s, llm: llm}
}

// Run fails when the draft cannot be stored or the run is cancelled. AI service problems
// yield the skeleton article.
func (a *WriterAgent) Run(ctx context.Context, in WriterInput) (WriterResult, error) {
	article, fallback, err := a.generate(ctx, in)
	if err != nil {
		return WriterResult{}, err
	}

	content := AssembleContent(article)
	wordCount := article.WordCount
	if wordCount == 0 {
		wordCount = len(strings.Fields(content))
	}

	draft := &domain.Draft{
		Title:           article.Title,
		Slug:            Slugify(article.Title),
		CategoryID:      in.CategoryID,
		Content:         content,
		Excerpt:         truncateRunes(article.Intro.Preview, excerptLength),
		MetaDescription: truncateRunes(article.Intro.Preview, metaLength),
		WorkflowStatus:  domain.WorkflowAIReview,
		ReadTimeMinutes: ReadTimeMinutes(wordCount),
	}
	if err := a.store.CreateDraft(ctx, draft, SectionRecords(article.Sections)); err != nil {
		return WriterResult{}, fmt.Errorf("failed to save draft: %w", err)
	}

	slog.InfoContext(ctx, "Draft saved",
		"draft_id", draft.ID,
		"sections", len(article.Sections),
		"word_count", wordCount,
		"fallback", fallback,
	)

	return WriterResult{
		DraftID:   draft.ID,
		Title:     draft.Title,
		Sections:  article.Sections,
		WordCount: wordCount,
		Fallback:  fallback,
	}, nil
}

func (a *WriterAgent) generate(ctx context.Context, in WriterInput) (Article, bool, error) {
	raw, err := a.llm.Complete(ctx, ai.Prompt{
		System:      writerSystemPrompt,
		User:        writerPrompt(in),
		LongForm:    true,
		Temperature: 0.7,
		MaxTokens:   6000,
		JSON:        true,
	})
	if err == nil {
		var article Article
		if article, err = ai.DecodeJSON[Article](raw); err == nil {
			return article, false, nil
		}
	}
	if !ai.IsFallbackCause(err) {
		return Article{}, false, fmt.Errorf("failed to generate article: %w", err)
	}
	slog.WarnContext(ctx, "Writer stage using skeleton article", "agent", "writer", "error", err)
	return skeletonArticle(), true, nil
}

// AssembleContent flattens an article into its markdown body:
// intro, sections, conclusion, FAQ, then the disclaimer.
func AssembleContent(a Article) string {
	var sb strings.Builder
	for _, part := range []string{a.Intro.Hook, a.Intro.Problem, a.Intro.Preview} {
		if part != "" {
			sb.WriteString(part + contentSectionBreak)
		}
	}

	for _, s := range a.Sections {
		sb.WriteString("## " + s.Heading + contentSectionBreak)
		for _, p := range s.Paragraphs {
			sb.WriteString(p + contentSectionBreak)
		}
	}

	if a.Conclusion.Summary != "" {
		sb.WriteString("## Conclusion" + contentSectionBreak + a.Conclusion.Summary + contentSectionBreak)
	}
	if a.Conclusion.CTA != "" {
		sb.WriteString("**" + a.Conclusion.CTA + "**" + contentSectionBreak)
	}

	if len(a.FAQ) > 0 {
		sb.WriteString("## Frequently Asked Questions" + contentSectionBreak)
		for _, f := range a.FAQ {
			sb.WriteString("**" + f.Question + "**\n" + f.Answer + contentSectionBreak)
		}
	}

	sb.WriteString("\n---\n" + a.MedicalDisclaimer)
	return sb.String()
}

// SectionRecords converts article sections into draft section rows ordered from 0.
func SectionRecords(sections []ArticleSection) []domain.DraftSection {
	records := make([]domain.DraftSection, 0, len(sections))
	for i, s := range sections {
		records = append(records, domain.DraftSection{
			Heading:    s.Heading,
			Content:    strings.Join(s.Paragraphs, contentSectionBreak),
			OrderIndex: i,
		})
	}
	return records
}

// SectionsFromRecords rebuilds article sections from stored rows in order_index order.
func SectionsFromRecords(records []domain.DraftSection) []ArticleSection {
	sections := make([]ArticleSection, 0, len(records))
	for _, r := range records {
		var paragraphs []string
		if r.Content != "" {
			paragraphs = strings.Split(r.Content, contentSectionBreak)
		}
		sections = append(sections, ArticleSection{Heading: r.Heading, Paragraphs: paragraphs})
	}
	return sections
}

// Slugify builds the /blogs/ path of a title.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return slugPrefix + slug
}

// ReadTimeMinutes estimates reading time at 200 words a minute, never below 5 minutes.
func ReadTimeMinutes(wordCount int) int {
	return max(minReadTimeMinutes, wordCount/wordsPerMinute)
}
