package premiads

import (
	"context"
	"time"

	"github.com/premiads/premiads/model"
)

// buildRewardGrant assembles the grant a submission earns from its mission's
// reward configuration. Loot box draws use the service RNG so repeated
// approvals of different submissions are independent draws.
func (p *PremiAds) buildRewardGrant(submission *model.Submission, mission *model.Mission) (*model.RewardGrant, error) {
	grant := &model.RewardGrant{
		RewardID:       model.GenerateUUIDWithSuffix("rwd"),
		SubmissionID:   submission.SubmissionID,
		UserID:         submission.UserID,
		PointsEarned:   mission.Rifas,
		CashbackEarned: mission.CashbackReward,
		RewardedAt:     time.Now(),
	}
	if mission.HasBadge {
		grant.BadgeEarned = true
		grant.BadgeImageURL = mission.BadgeImageURL
	}
	if mission.HasLootBox && len(mission.LootBoxRewards) > 0 {
		reward, err := model.SelectLootBoxReward(mission.LootBoxRewards, p.rng)
		if err != nil {
			return nil, err
		}
		grant.LootBoxReward = &reward
	}
	return grant, nil
}

// GetRewardGrant returns the grant issued for a submission, if one exists.
func (p *PremiAds) GetRewardGrant(ctx context.Context, submissionID string) (*model.RewardGrant, error) {
	ctx, span := tracer.Start(ctx, "Getting reward grant")
	defer span.End()
	return p.datasource.GetRewardGrantBySubmission(ctx, submissionID)
}
