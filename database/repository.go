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

package database

import (
	"context"

	"github.com/premiads/premiads/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	submission // Interface for submission-related operations
	mission    // Interface for mission-related operations
	reward     // Interface for reward grant operations
	balance    // Interface for participant balance operations
}

// submission defines methods for handling mission submissions.
type submission interface {
	RecordSubmission(ctx context.Context, submission *model.Submission) (*model.Submission, error)                // Records a new submission
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)                                      // Retrieves a submission by ID
	ActiveSubmissionExists(ctx context.Context, userID, missionID string, blockRejected bool) (bool, error)       // Checks the duplicate-guard condition for a (user, mission) pair
	TransitionSubmission(ctx context.Context, transition SubmissionTransition) (*model.Submission, error)         // Applies a conditional status transition
	ListPendingSecondInstance(ctx context.Context) ([]model.Submission, error)                                    // Retrieves all submissions awaiting admin adjudication
	GetSubmissionsByMission(ctx context.Context, missionID, status string, limit, offset int) ([]model.Submission, error) // Retrieves a mission's submissions, optionally filtered by status
}

// mission defines methods for handling missions.
type mission interface {
	CreateMission(ctx context.Context, mission model.Mission) (model.Mission, error)
	GetMission(ctx context.Context, id string) (*model.Mission, error)
	GetMissionsByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]model.Mission, error)
}

// reward defines methods for handling reward grants.
type reward interface {
	GetRewardGrantBySubmission(ctx context.Context, submissionID string) (*model.RewardGrant, error)       // Retrieves the grant issued for a submission, if any
	ApproveSubmissionWithReward(ctx context.Context, transition SubmissionTransition, grant *model.RewardGrant) error // Applies approval, grant insert and balance increments in one transaction
}

// balance defines methods for handling participant balances.
type balance interface {
	GetBalanceByUser(ctx context.Context, userID string) (*model.ParticipantBalance, error)
}
