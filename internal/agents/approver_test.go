package agents

import (
	"context"
	"testing"

	"health-content-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproverAgent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		gates      map[string]bool
		wantPassed bool
		wantStatus domain.WorkflowStatus
	}{
		{name: "one gate failed", gates: map[string]bool{domain.GateClinicalAccuracy: true, domain.GateSEOScore: false}, wantStatus: domain.WorkflowAIReview},
		{name: "all gates passed", gates: map[string]bool{domain.GateClinicalAccuracy: true, domain.GateSEOScore: true}, wantPassed: true, wantStatus: domain.WorkflowStaffReview},
		{name: "no gates", gates: nil, wantStatus: domain.WorkflowAIReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openStore(t)
			draft := seedDraft(t, s, domain.Draft{Title: "Sleep", WorkflowStatus: domain.WorkflowStaffReview})
			for name, passed := range tt.gates {
				require.NoError(t, s.UpsertGate(ctx, &domain.QualityGate{
					RequestID: draft.ID,
					GateName:  name,
					Passed:    passed,
					Value:     map[string]any{"score": 1},
					Threshold: map[string]any{"min": 1},
				}))
			}

			res, err := NewApproverAgent(s).Run(ctx, draft.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassed, res.AllPassed)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Len(t, res.QualityGates, len(tt.gates))

			got, err := s.GetDraft(ctx, draft.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.WorkflowStatus)
		})
	}
}
