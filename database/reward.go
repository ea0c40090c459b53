package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/lib/pq"
)

func (d Datasource) GetRewardGrantBySubmission(ctx context.Context, submissionID string) (*model.RewardGrant, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT reward_id, submission_id, user_id, points_earned, cashback_earned, badge_earned, COALESCE(badge_image_url, ''), lootbox_reward, rewarded_at
		FROM premiads.reward_grants
		WHERE submission_id = $1
	`, submissionID)

	grant := &model.RewardGrant{}
	var lootBoxJSON []byte
	err := row.Scan(&grant.RewardID, &grant.SubmissionID, &grant.UserID, &grant.PointsEarned, &grant.CashbackEarned, &grant.BadgeEarned, &grant.BadgeImageURL, &lootBoxJSON, &grant.RewardedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("No reward grant for submission '%s'", submissionID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve reward grant", err)
	}

	if len(lootBoxJSON) > 0 {
		var lootBox model.LootBoxReward
		if err := json.Unmarshal(lootBoxJSON, &lootBox); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal loot box reward", err)
		}
		grant.LootBoxReward = &lootBox
	}

	return grant, nil
}

// ApproveSubmissionWithReward runs the whole approval as one transaction:
// the conditional status move, the grant insert, and the balance increments.
// If any statement fails the transaction rolls back, so a submission is never
// left approved without its grant. The balance update is a single SQL
// increment, not a read-modify-write, so concurrent approvals for the same
// user cannot lose updates.
func (d Datasource) ApproveSubmissionWithReward(ctx context.Context, transition SubmissionTransition, grant *model.RewardGrant) error {
	ctx, span := otel.Tracer("premiads.rewards").Start(ctx, "Approving submission with reward")
	defer span.End()

	var lootBoxJSON []byte
	if grant.LootBoxReward != nil {
		var err error
		lootBoxJSON, err = json.Marshal(grant.LootBoxReward)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal loot box reward", err)
		}
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE premiads.submissions
		SET status = $2, review_stage = $3, validated_by = $4, admin_validated = $5,
		    feedback = COALESCE(NULLIF($6, ''), feedback),
		    second_instance_status = NULLIF($7, ''),
		    updated_at = $8
		WHERE submission_id = $1 AND status = ANY($9) AND review_stage = $10
	`, transition.SubmissionID, transition.ToStatus, transition.ToStage, transition.ValidatedBy, transition.AdminValidated,
		transition.Feedback, transition.SecondInstanceStatus, grant.RewardedAt, pq.Array(transition.FromStatuses), transition.FromStage)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to update submission status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return d.resolveStaleTransition(ctx, transition.SubmissionID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO premiads.reward_grants(reward_id, submission_id, user_id, points_earned, cashback_earned, badge_earned, badge_image_url, lootbox_reward, rewarded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, grant.RewardID, grant.SubmissionID, grant.UserID, grant.PointsEarned, grant.CashbackEarned, grant.BadgeEarned, grant.BadgeImageURL, lootBoxJSON, grant.RewardedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Reward grant already exists for this submission", err)
		}
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to record reward grant", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO premiads.balances(user_id, rifas, cashback, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE
		SET rifas = premiads.balances.rifas + EXCLUDED.rifas,
		    cashback = premiads.balances.cashback + EXCLUDED.cashback,
		    updated_at = EXCLUDED.updated_at
	`, grant.UserID, grant.PointsEarned, grant.CashbackEarned, grant.RewardedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to apply balance increments", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to commit approval transaction", err)
	}

	return nil
}
