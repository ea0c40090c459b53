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

package apierror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "NotFound Error",
			err:      apierror.NewAPIError(apierror.ErrNotFound, "Submission not found", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "DuplicateSubmission Error",
			err:      apierror.NewAPIError(apierror.ErrDuplicateSubmission, "Already submitted", nil),
			expected: http.StatusConflict,
		},
		{
			name:     "InvalidTransition Error",
			err:      apierror.NewAPIError(apierror.ErrInvalidTransition, "Stale decision", nil),
			expected: http.StatusConflict,
		},
		{
			name:     "Unauthenticated Error",
			err:      apierror.NewAPIError(apierror.ErrUnauthenticated, "Please sign in", nil),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "MissionInactive Error",
			err:      apierror.NewAPIError(apierror.ErrMissionInactive, "Mission is not active", nil),
			expected: http.StatusBadRequest,
		},
		{
			name:     "StoreUnavailable Error",
			err:      apierror.NewAPIError(apierror.ErrStoreUnavailable, "Store unreachable", nil),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "RewardIssuanceFailed Error",
			err:      apierror.NewAPIError(apierror.ErrRewardIssuanceFailed, "Reward grant failed", nil),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Non APIError",
			err:      errors.New("plain error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apierror.MapErrorToHTTPStatus(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	apiErr := apierror.NewAPIError(apierror.ErrInvalidTransition, "Stale decision", nil)
	assert.Equal(t, apierror.ErrInvalidTransition, apierror.CodeOf(apiErr))
	assert.Equal(t, apierror.ErrInternalServer, apierror.CodeOf(errors.New("plain error")))
}
