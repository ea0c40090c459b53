package premiads

import (
	"context"

	"github.com/premiads/premiads/model"
)

// GetParticipantBalance returns a participant's accumulated rifas and
// cashback. Participants with no approved submissions yet read as zero.
func (p *PremiAds) GetParticipantBalance(ctx context.Context, userID string) (*model.ParticipantBalance, error) {
	ctx, span := tracer.Start(ctx, "Getting participant balance")
	defer span.End()
	return p.datasource.GetBalanceByUser(ctx, userID)
}
