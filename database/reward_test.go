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
	"regexp"
	"testing"
	"time"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstReviewApproval(submissionID string) SubmissionTransition {
	return SubmissionTransition{
		SubmissionID: submissionID,
		FromStatuses: []string{model.StatusPending, model.StatusInProgress},
		FromStage:    model.StageFirstReview,
		ToStatus:     model.StatusApproved,
		ToStage:      model.StageFirstReview,
		ValidatedBy:  "adv_1",
	}
}

// The balance update must be a store-level increment. A read-modify-write here
// would lose updates under concurrent approvals for the same participant.
func TestApproveSubmissionWithRewardIncrementsBalanceInStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	d := Datasource{Conn: db}

	submissionID := model.GenerateUUIDWithSuffix("sub")
	grant := &model.RewardGrant{
		RewardID:       model.GenerateUUIDWithSuffix("rwd"),
		SubmissionID:   submissionID,
		UserID:         "usr_1",
		PointsEarned:   100,
		CashbackEarned: decimal.RequireFromString("12.50"),
		RewardedAt:     time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE premiads.submissions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO premiads.reward_grants").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET rifas = premiads.balances.rifas + EXCLUDED.rifas, cashback = premiads.balances.cashback + EXCLUDED.cashback")).
		WithArgs(grant.UserID, grant.PointsEarned, grant.CashbackEarned, grant.RewardedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = d.ApproveSubmissionWithReward(context.Background(), firstReviewApproval(submissionID), grant)
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// A second approval finds the row already moved out of the expected status:
// the transaction must stop at the conditional update, touching neither the
// grants nor the balances.
func TestApproveSubmissionWithRewardStopsWhenAlreadyDecided(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	d := Datasource{Conn: db}

	submissionID := model.GenerateUUIDWithSuffix("sub")
	grant := &model.RewardGrant{
		RewardID:       model.GenerateUUIDWithSuffix("rwd"),
		SubmissionID:   submissionID,
		UserID:         "usr_1",
		PointsEarned:   100,
		CashbackEarned: decimal.RequireFromString("12.50"),
		RewardedAt:     time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE premiads.submissions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(submissionID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = d.ApproveSubmissionWithReward(context.Background(), firstReviewApproval(submissionID), grant)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidTransition, apierror.CodeOf(err))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
