package agents

import (
	"fmt"
	"strings"
)

// BrandName is the hospital the articles are written for.
const BrandName = "Broward Health"

const (
	// reviewContentLimit is how much of a draft body the review and SEO prompts carry.
	reviewContentLimit = 3000
	// excludedTitleLimit caps the existing titles the research prompt lists.
	excludedTitleLimit = 10
)

const researchSystemPrompt = `You are a healthcare content strategist for ` + BrandName + `.
Suggest article ideas that fill gaps in the existing blog. Output ONLY valid JSON.`

const writerSystemPrompt = `You are a senior medical health writer for ` + BrandName + `, a hospital system in South Florida.

Rules:
- 2,000 to 4,000 words
- 10 to 15 H2 sections, each with 3 to 5 full paragraphs
- expert but accessible tone with local South Florida context
- actionable advice in every section
- no unverified medical claims
- include a medical disclaimer and a call to action for ` + BrandName + ` services

Output ONLY valid JSON.`

const reviewerSystemPrompt = `You are the medical review board of ` + BrandName + `.
Check claims against current CDC, WHO and USPSTF guidance, flag outdated statistics and missing safety warnings.
Reject dangerous advice, flag content needing edits, approve content that is ready.
Output ONLY valid JSON.`

const seoSystemPrompt = `You are a healthcare SEO specialist for ` + BrandName + `.
Title tags are 50 to 60 characters with the primary keyword first. Meta descriptions are 150 to 160 characters and end with a call to action.
Slugs are hyphenated and start with /blogs/. Suggest 3 to 5 internal links to ` + BrandName + ` pages.
Output ONLY valid JSON.`

func researchPrompt(topic string, keywords, existing []string) string {
	if len(existing) > excludedTitleLimit {
		existing = existing[:excludedTitleLimit]
	}
	return fmt.Sprintf(`Find content opportunities about: %s

Existing topics to avoid: %s
Keywords: %s

Return 3 ideas as JSON:
{
  "topics": [
    {"title": "...", "primary_keyword": "...", "content_angle": "...", "target_services": ["..."]}
  ]
}`, topic, strings.Join(existing, ", "), strings.Join(keywords, ", "))
}

func writerPrompt(in WriterInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a comprehensive healthcare blog post for %s.\n\n", BrandName)
	fmt.Fprintf(&sb, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(in.Keywords, ", "))
	if in.Idea != nil {
		if in.Idea.PrimaryKeyword != "" {
			fmt.Fprintf(&sb, "Primary keyword: %s\n", in.Idea.PrimaryKeyword)
		}
		if in.Idea.ContentAngle != "" {
			fmt.Fprintf(&sb, "Content angle: %s\n", in.Idea.ContentAngle)
		}
		if len(in.Idea.TargetServices) > 0 {
			fmt.Fprintf(&sb, "Services to mention: %s\n", strings.Join(in.Idea.TargetServices, ", "))
		}
	}
	sb.WriteString(`
Include a FAQ with 3 to 5 questions and a "Reviewed by Dr. [Name]" placeholder.

Return JSON:
{
  "title": "...",
  "slug": "...",
  "intro": {"hook": "...", "problem": "...", "preview": "..."},
  "sections": [{"h2": "...", "paragraphs": ["...", "...", "..."]}],
  "conclusion": {"summary": "...", "cta": "..."},
  "faq": [{"question": "...", "answer": "..."}],
  "medical_disclaimer": "...",
  "word_count": 2500
}`)
	return sb.String()
}

func reviewerPrompt(title, content string) string {
	return fmt.Sprintf(`Review this healthcare article for clinical accuracy and safety.

Title: %s
Content: %s

Return JSON:
{
  "status": "approved|needs_review|rejected",
  "clinical_accuracy_score": 0,
  "safety_score": 0,
  "issues": ["..."],
  "recommendations": ["..."]
}`, title, truncateRunes(content, reviewContentLimit))
}

func seoPrompt(title, content string) string {
	return fmt.Sprintf(`Analyze and optimize this blog post for search.

Title: %s
Content: %s

Return JSON:
{
  "title_tag": "...",
  "meta_description": "...",
  "url_slug": "/blogs/...",
  "internal_links": [{"text": "...", "url": "/..."}],
  "seo_score": 0
}`, title, truncateRunes(content, reviewContentLimit))
}

func imagePrompt(title, topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A professional medical illustration for a %s blog post.\n", BrandName)
	fmt.Fprintf(&sb, "Blog title: %s\n", title)
	if topic != "" && topic != title {
		fmt.Fprintf(&sb, "Topic: %s\n", topic)
	}
	sb.WriteString(`Clean, modern healthcare look. Brand colors blue (#005EB8), white and teal.
No text of any kind. Photorealistic but approachable, South Florida healthcare setting,
suitable for a hospital website. Wide 1792x1024 composition.`)
	return sb.String()
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
