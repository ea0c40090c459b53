package premiads

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/premiads/premiads/config"
	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/internal/notification"
	"github.com/premiads/premiads/model"
)

var tracer = otel.Tracer("Submission workflow")

// checkMissionOpen loads the mission and verifies it can still receive
// submissions.
func (p *PremiAds) checkMissionOpen(ctx context.Context, missionID string) (*model.Mission, error) {
	ctx, span := tracer.Start(ctx, "Checking mission is open")
	defer span.End()

	mission, err := p.datasource.GetMission(ctx, missionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !mission.Active {
		err := apierror.NewAPIError(apierror.ErrMissionInactive, "Mission is not accepting submissions", nil)
		span.RecordError(err)
		return nil, err
	}
	return mission, nil
}

// checkDuplicateSubmission rejects a submission when the participant already
// holds a live or approved submission for the mission. Rejected submissions
// only block resubmission when the deployment is configured that way.
func (p *PremiAds) checkDuplicateSubmission(ctx context.Context, userID, missionID string) error {
	ctx, span := tracer.Start(ctx, "Checking for duplicate submission")
	defer span.End()

	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	blockRejected := conf.Submission.AllowResubmitAfterRejection != nil && !*conf.Submission.AllowResubmitAfterRejection
	exists, err := p.datasource.ActiveSubmissionExists(ctx, userID, missionID, blockRejected)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if exists {
		err := apierror.NewAPIError(apierror.ErrDuplicateSubmission, "Participant already has a submission for this mission", map[string]string{
			"mission_id": missionID,
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate submission")
		return err
	}
	return nil
}

// Submit records a new mission submission for a participant. The submission
// starts at pending/first_review. A webhook is emitted once the row is
// recorded so advertiser dashboards can refresh their queues.
func (p *PremiAds) Submit(ctx context.Context, userID, missionID string, data map[string]interface{}) (*model.Submission, error) {
	ctx, span := tracer.Start(ctx, "Recording submission")
	defer span.End()

	if userID == "" {
		return nil, apierror.NewAPIError(apierror.ErrUnauthenticated, "A signed-in participant is required to submit", nil)
	}
	if missionID == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Mission ID is required", nil)
	}

	mission, err := p.checkMissionOpen(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if err := p.checkDuplicateSubmission(ctx, userID, mission.MissionID); err != nil {
		return nil, err
	}

	now := time.Now()
	submission := &model.Submission{
		SubmissionID:   model.GenerateUUIDWithSuffix("sub"),
		MissionID:      mission.MissionID,
		UserID:         userID,
		SubmissionData: data,
		Status:         model.StatusPending,
		ReviewStage:    model.StageFirstReview,
		SubmittedAt:    now,
		UpdatedAt:      now,
	}
	recorded, err := p.datasource.RecordSubmission(ctx, submission)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	go func() {
		err := p.queue.SendWebhook(NewWebhook{
			Event:   "submission.received",
			Payload: recorded,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()

	return recorded, nil
}

// GetSubmission retrieves a single submission by ID.
func (p *PremiAds) GetSubmission(ctx context.Context, submissionID string) (*model.Submission, error) {
	ctx, span := tracer.Start(ctx, "Getting submission")
	defer span.End()
	return p.datasource.GetSubmission(ctx, submissionID)
}

// ListPendingSecondInstance returns the escalation queue: submissions an
// advertiser rejected that now await an admin's final call, most recently
// escalated first.
func (p *PremiAds) ListPendingSecondInstance(ctx context.Context) ([]model.Submission, error) {
	ctx, span := tracer.Start(ctx, "Listing second instance queue")
	defer span.End()
	return p.datasource.ListPendingSecondInstance(ctx)
}

// GetMissionSubmissions returns submissions for a mission, optionally
// filtered by status.
func (p *PremiAds) GetMissionSubmissions(ctx context.Context, missionID, status string, limit, offset int) ([]model.Submission, error) {
	ctx, span := tracer.Start(ctx, "Listing mission submissions")
	defer span.End()
	return p.datasource.GetSubmissionsByMission(ctx, missionID, status, limit, offset)
}
