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
package api

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	model2 "github.com/premiads/premiads/api/model"
	"github.com/premiads/premiads/api/middleware"
	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/gin-gonic/gin"
)

// caller returns the identity the gateway forwarded with the request.
func caller(c *gin.Context) (id, role string) {
	return c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole)
}

func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}

// RecordSubmission handles a participant submitting work for a mission.
// It binds the incoming JSON request to a CreateSubmission object, validates
// it, and records the submission for first review.
//
// Responses:
// - 400 Bad Request: invalid body or the mission is not accepting work.
// - 401 Unauthorized: no participant identity on the request.
// - 409 Conflict: the participant already has a submission for the mission.
// - 201 Created: the submission was recorded.
func (a Api) RecordSubmission(c *gin.Context) {
	var newSubmission model2.CreateSubmission
	if err := c.ShouldBindJSON(&newSubmission); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newSubmission.ValidateCreateSubmission(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	userID, _ := caller(c)
	resp, err := a.premiads.Submit(c.Request.Context(), userID, newSubmission.MissionID, newSubmission.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DecideSubmission applies a reviewer verdict to a submission. The stage in
// the body names the review stage the caller is acting in; second instance
// decisions require the admin role.
//
// Responses:
// - 400 Bad Request: invalid body or unknown decision/stage.
// - 401 Unauthorized: no reviewer identity on the request.
// - 403 Forbidden: the caller's role cannot decide at the requested stage.
// - 409 Conflict: the submission is not in a status the stage can act on.
// - 200 OK: the decision was applied.
func (a Api) DecideSubmission(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var decision model2.SubmissionDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := decision.ValidateSubmissionDecision(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	reviewerID, role := caller(c)
	if decision.Stage == model.StageSecondInstance && role != middleware.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Second instance decisions require the admin role"})
		return
	}
	if decision.Stage == model.StageFirstReview && role != middleware.RoleAdvertiser && role != middleware.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "First review decisions require the advertiser role"})
		return
	}

	resp, err := a.premiads.DecideSubmission(c.Request.Context(), id, reviewerID, decision.Decision, decision.Stage, decision.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSubmission retrieves a single submission by ID.
func (a Api) GetSubmission(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.premiads.GetSubmission(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSubmissionReward returns the reward grant issued for an approved
// submission.
func (a Api) GetSubmissionReward(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.premiads.GetRewardGrant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSecondInstanceQueue returns the submissions awaiting an admin's final
// call, most recently escalated first. Admin only.
func (a Api) GetSecondInstanceQueue(c *gin.Context) {
	_, role := caller(c)
	if role != middleware.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Second instance queue requires the admin role"})
		return
	}

	resp, err := a.premiads.ListPendingSecondInstance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMissionSubmissions lists a mission's submissions, optionally filtered
// by status.
func (a Api) GetMissionSubmissions(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	resp, err := a.premiads.GetMissionSubmissions(c.Request.Context(), id, c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
