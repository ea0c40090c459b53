/*
Copyright 2024 PremiAds Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package premiads

import (
	"context"
	"time"

	"github.com/premiads/premiads/database"
	"github.com/premiads/premiads/internal/apierror"
	redlock "github.com/premiads/premiads/internal/lock"
	"github.com/premiads/premiads/internal/notification"
	"github.com/premiads/premiads/model"
)

// Moderation decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// DecisionResult carries the submission after a decision was applied, plus
// the reward grant when the decision issued one.
type DecisionResult struct {
	Submission *model.Submission  `json:"submission"`
	Reward     *model.RewardGrant `json:"reward,omitempty"`
}

// acquireLock locks a submission for the duration of a decision. Decisions
// on distinct submissions proceed in parallel; two reviewers racing on the
// same submission are serialized here, and the loser then fails the
// conditional transition instead of double-applying.
func (p *PremiAds) acquireLock(ctx context.Context, submissionID string) (*redlock.Locker, error) {
	locker := redlock.NewLocker(p.redis, submissionID, model.GenerateUUIDWithSuffix("loc"))
	err := locker.WaitLock(ctx, 30*time.Second, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return locker, nil
}

// DecideSubmission applies a reviewer's verdict to a submission. stage names
// the review stage the reviewer is acting in; the stored submission must be
// in a status that stage can act on, otherwise the call fails with an invalid
// transition error and no state changes.
//
// Approvals are terminal and atomically issue the mission's rewards; a
// first-review rejection escalates the submission to the second instance
// queue; a second-instance rejection is terminal.
func (p *PremiAds) DecideSubmission(ctx context.Context, submissionID, reviewerID, decision, stage, feedback string) (*DecisionResult, error) {
	ctx, span := tracer.Start(ctx, "Deciding submission")
	defer span.End()

	if reviewerID == "" {
		return nil, apierror.NewAPIError(apierror.ErrUnauthenticated, "A signed-in reviewer is required to decide", nil)
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Decision must be approve or reject", map[string]string{
			"decision": decision,
		})
	}
	if stage != model.StageFirstReview && stage != model.StageSecondInstance {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Unknown review stage", map[string]string{
			"stage": stage,
		})
	}

	locker, err := p.acquireLock(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Could not lock submission for review", err.Error())
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			notification.NotifyError(err)
		}
	}()

	if decision == DecisionApprove {
		return p.approveSubmission(ctx, submissionID, reviewerID, stage, feedback)
	}
	return p.rejectSubmission(ctx, submissionID, reviewerID, stage, feedback)
}

// approveSubmission moves a submission to approved and issues its rewards in
// the same database transaction. A retried approval of the same transition
// returns the grant already issued; an approval recorded at a different stage
// is not retriable and fails like any other off-table decision.
func (p *PremiAds) approveSubmission(ctx context.Context, submissionID, reviewerID, stage, feedback string) (*DecisionResult, error) {
	ctx, span := tracer.Start(ctx, "Approving submission")
	defer span.End()

	submission, err := p.datasource.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Status == model.StatusApproved {
		if submission.ReviewStage != stage {
			return nil, apierror.NewAPIError(apierror.ErrInvalidTransition, "Submission was approved at a different stage", map[string]string{
				"approved_stage": submission.ReviewStage,
			})
		}
		grant, err := p.datasource.GetRewardGrantBySubmission(ctx, submissionID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		return &DecisionResult{Submission: submission, Reward: grant}, nil
	}
	mission, err := p.datasource.GetMission(ctx, submission.MissionID)
	if err != nil {
		return nil, err
	}
	grant, err := p.buildRewardGrant(submission, mission)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrRewardIssuanceFailed, "Could not assemble reward grant", err.Error())
	}

	transition := database.SubmissionTransition{
		SubmissionID: submissionID,
		ToStatus:     model.StatusApproved,
		ValidatedBy:  reviewerID,
		Feedback:     feedback,
	}
	switch stage {
	case model.StageFirstReview:
		transition.FromStatuses = []string{model.StatusPending, model.StatusInProgress}
		transition.FromStage = model.StageFirstReview
		transition.ToStage = model.StageFirstReview
	case model.StageSecondInstance:
		transition.FromStatuses = []string{model.StatusSecondInstancePending}
		transition.FromStage = model.StageSecondInstance
		transition.ToStage = model.StageSecondInstance
		transition.AdminValidated = true
		transition.SecondInstanceStatus = model.StatusApproved
	}

	if err := p.datasource.ApproveSubmissionWithReward(ctx, transition, grant); err != nil {
		span.RecordError(err)
		switch apierror.CodeOf(err) {
		case apierror.ErrNotFound, apierror.ErrInvalidTransition, apierror.ErrConflict:
			return nil, err
		default:
			return nil, apierror.NewAPIError(apierror.ErrRewardIssuanceFailed, "Reward issuance failed, approval rolled back", err.Error())
		}
	}

	approved, err := p.datasource.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	go func() {
		err := p.queue.SendWebhook(NewWebhook{
			Event:   getEventFromStatus(approved.Status),
			Payload: DecisionResult{Submission: approved, Reward: grant},
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()

	return &DecisionResult{Submission: approved, Reward: grant}, nil
}

// rejectSubmission applies a rejection. At first review the submission is
// escalated rather than closed: it moves to second_instance_pending and an
// escalation task is queued for the admin team. At second instance the
// rejection is final.
func (p *PremiAds) rejectSubmission(ctx context.Context, submissionID, reviewerID, stage, feedback string) (*DecisionResult, error) {
	ctx, span := tracer.Start(ctx, "Rejecting submission")
	defer span.End()

	transition := database.SubmissionTransition{
		SubmissionID: submissionID,
		ValidatedBy:  reviewerID,
		Feedback:     feedback,
	}
	switch stage {
	case model.StageFirstReview:
		transition.FromStatuses = []string{model.StatusPending, model.StatusInProgress}
		transition.FromStage = model.StageFirstReview
		transition.ToStatus = model.StatusSecondInstancePending
		transition.ToStage = model.StageSecondInstance
	case model.StageSecondInstance:
		transition.FromStatuses = []string{model.StatusSecondInstancePending}
		transition.FromStage = model.StageSecondInstance
		transition.ToStatus = model.StatusRejected
		transition.ToStage = model.StageSecondInstance
		transition.AdminValidated = true
		transition.SecondInstanceStatus = model.StatusRejected
	}

	rejected, err := p.datasource.TransitionSubmission(ctx, transition)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if rejected.Status == model.StatusSecondInstancePending {
		if err := p.queue.queueEscalationAlert(ctx, rejected); err != nil {
			// The escalation still sits in the second instance queue in the
			// database; only the push alert was lost.
			notification.NotifyError(err)
		}
	} else {
		go func() {
			err := p.queue.SendWebhook(NewWebhook{
				Event:   getEventFromStatus(rejected.Status),
				Payload: DecisionResult{Submission: rejected},
			})
			if err != nil {
				notification.NotifyError(err)
			}
		}()
	}

	return &DecisionResult{Submission: rejected}, nil
}
