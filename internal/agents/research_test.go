package agents

import (
	"context"
	"testing"

	"health-content-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps at most three ideas and excludes existing titles", func(t *testing.T) {
		s := openStore(t)
		seedDraft(t, s, domain.Draft{Title: "Flu Shots 101"})

		llm := &scriptedLLM{replies: []string{`{"topics":[
			{"title":"A","primary_keyword":"a","content_angle":"x","target_services":["Cardiology"]},
			{"title":"B","primary_keyword":"b","content_angle":"y","target_services":[]},
			{"title":"C","primary_keyword":"c","content_angle":"z","target_services":[]},
			{"title":"D","primary_keyword":"d","content_angle":"w","target_services":[]}
		]}`}}

		res := NewResearchAgent(s, llm).Run(ctx, ResearchInput{Topic: "Flu", Keywords: []string{"vaccine"}})
		assert.False(t, res.Fallback)
		require.Len(t, res.Topics, 3)
		assert.Equal(t, "A", res.Topics[0].Title)
		assert.Contains(t, llm.prompts[0].User, "Existing topics to avoid: Flu Shots 101")
	})

	t.Run("falls back to the topic", func(t *testing.T) {
		s := openStore(t)
		res := NewResearchAgent(s, &scriptedLLM{err: errUnavailable}).Run(ctx, ResearchInput{Topic: "Flu", Keywords: []string{"vaccine", "season"}})
		assert.True(t, res.Fallback)
		assert.Equal(t, []Idea{{
			Title:          "Flu",
			PrimaryKeyword: "vaccine",
			ContentAngle:   "General overview",
			TargetServices: []string{"General Medicine"},
		}}, res.Topics)
	})

	t.Run("fallback keyword defaults to topic", func(t *testing.T) {
		s := openStore(t)
		res := NewResearchAgent(s, &scriptedLLM{replies: []string{`{"topics":[]}`}}).Run(ctx, ResearchInput{Topic: "Flu"})
		assert.True(t, res.Fallback)
		assert.Equal(t, "Flu", res.Topics[0].PrimaryKeyword)
	})
}
