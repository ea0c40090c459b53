package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/lib/pq"
)

// SubmissionTransition describes one conditional status move. The update only
// applies when the row still matches FromStatuses and FromStage, which is what
// serializes concurrent decisions on the same submission.
type SubmissionTransition struct {
	SubmissionID         string
	FromStatuses         []string
	FromStage            string
	ToStatus             string
	ToStage              string
	ValidatedBy          string
	AdminValidated       bool
	Feedback             string
	SecondInstanceStatus string
}

func (d Datasource) RecordSubmission(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	ctx, span := otel.Tracer("premiads.submissions").Start(ctx, "Saving submission to db")
	defer span.End()

	submissionDataJSON, err := json.Marshal(submission.SubmissionData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal submission data", err)
	}

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO premiads.submissions(submission_id,mission_id,user_id,submission_data,status,review_stage,submitted_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		submission.SubmissionID, submission.MissionID, submission.UserID, submissionDataJSON, submission.Status, submission.ReviewStage, submission.SubmittedAt, submission.UpdatedAt,
	)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrDuplicateSubmission, "An active submission already exists for this mission", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to record submission", err)
	}

	return submission, nil
}

func (d Datasource) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT submission_id, mission_id, user_id, submission_data, status, review_stage, COALESCE(feedback, ''), COALESCE(validated_by, ''), admin_validated, COALESCE(second_instance_status, ''), submitted_at, updated_at
		FROM premiads.submissions
		WHERE submission_id = $1
	`, id)

	submission := &model.Submission{}
	var submissionDataJSON []byte
	err := row.Scan(&submission.SubmissionID, &submission.MissionID, &submission.UserID, &submissionDataJSON, &submission.Status, &submission.ReviewStage, &submission.Feedback, &submission.ValidatedBy, &submission.AdminValidated, &submission.SecondInstanceStatus, &submission.SubmittedAt, &submission.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Submission with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve submission", err)
	}

	err = json.Unmarshal(submissionDataJSON, &submission.SubmissionData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal submission data", err)
	}

	return submission, nil
}

// ActiveSubmissionExists reports whether the (user, mission) pair already has
// a submission that blocks a new one. Approved and in-flight submissions
// always block; a final rejection blocks only when blockRejected is set.
func (d Datasource) ActiveSubmissionExists(ctx context.Context, userID, missionID string, blockRejected bool) (bool, error) {
	ctx, span := otel.Tracer("premiads.submissions").Start(ctx, "Checking for existing submission")
	defer span.End()

	blocking := []string{model.StatusPending, model.StatusInProgress, model.StatusSecondInstancePending, model.StatusApproved}
	if blockRejected {
		blocking = append(blocking, model.StatusRejected)
	}

	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM premiads.submissions WHERE user_id = $1 AND mission_id = $2 AND status = ANY($3))
	`, userID, missionID, pq.Array(blocking)).Scan(&exists)

	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to check for existing submission", err)
	}

	return exists, nil
}

// TransitionSubmission applies a conditional status update and returns the
// updated row. When no row matches the expected state, the stale decision is
// reported as INVALID_TRANSITION (or NOT_FOUND for an unknown submission).
func (d Datasource) TransitionSubmission(ctx context.Context, transition SubmissionTransition) (*model.Submission, error) {
	ctx, span := otel.Tracer("premiads.submissions").Start(ctx, "Transitioning submission status")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE premiads.submissions
		SET status = $2, review_stage = $3, validated_by = $4, admin_validated = $5,
		    feedback = COALESCE(NULLIF($6, ''), feedback),
		    second_instance_status = NULLIF($7, ''),
		    updated_at = $8
		WHERE submission_id = $1 AND status = ANY($9) AND review_stage = $10
	`, transition.SubmissionID, transition.ToStatus, transition.ToStage, transition.ValidatedBy, transition.AdminValidated,
		transition.Feedback, transition.SecondInstanceStatus, time.Now(), pq.Array(transition.FromStatuses), transition.FromStage)

	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to update submission status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, d.resolveStaleTransition(ctx, transition.SubmissionID)
	}

	return d.GetSubmission(ctx, transition.SubmissionID)
}

// resolveStaleTransition distinguishes a decision on a missing submission
// from one whose state moved underneath the caller.
func (d Datasource) resolveStaleTransition(ctx context.Context, submissionID string) error {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM premiads.submissions WHERE submission_id = $1)
	`, submissionID).Scan(&exists)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to check submission existence", err)
	}
	if !exists {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Submission with ID '%s' not found", submissionID), nil)
	}
	return apierror.NewAPIError(apierror.ErrInvalidTransition, "Submission state changed, re-fetch before deciding", nil)
}

func (d Datasource) ListPendingSecondInstance(ctx context.Context) ([]model.Submission, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT submission_id, mission_id, user_id, submission_data, status, review_stage, COALESCE(feedback, ''), COALESCE(validated_by, ''), admin_validated, COALESCE(second_instance_status, ''), submitted_at, updated_at
		FROM premiads.submissions
		WHERE status = $1
		ORDER BY updated_at DESC
	`, model.StatusSecondInstancePending)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve second-instance queue", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func (d Datasource) GetSubmissionsByMission(ctx context.Context, missionID, status string, limit, offset int) ([]model.Submission, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT submission_id, mission_id, user_id, submission_data, status, review_stage, COALESCE(feedback, ''), COALESCE(validated_by, ''), admin_validated, COALESCE(second_instance_status, ''), submitted_at, updated_at
		FROM premiads.submissions
		WHERE mission_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY submitted_at DESC
		LIMIT $3 OFFSET $4
	`, missionID, status, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve mission submissions", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func scanSubmissions(rows *sql.Rows) ([]model.Submission, error) {
	submissions := []model.Submission{}

	for rows.Next() {
		submission := model.Submission{}
		var submissionDataJSON []byte
		err := rows.Scan(
			&submission.SubmissionID,
			&submission.MissionID,
			&submission.UserID,
			&submissionDataJSON,
			&submission.Status,
			&submission.ReviewStage,
			&submission.Feedback,
			&submission.ValidatedBy,
			&submission.AdminValidated,
			&submission.SecondInstanceStatus,
			&submission.SubmittedAt,
			&submission.UpdatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan submission data", err)
		}

		err = json.Unmarshal(submissionDataJSON, &submission.SubmissionData)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal submission data", err)
		}

		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Error occurred while iterating over submissions", err)
	}

	return submissions, nil
}
