package api

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	model2 "github.com/premiads/premiads/api/model"
	"github.com/premiads/premiads/api/middleware"

	"github.com/gin-gonic/gin"
)

// CreateMission handles an advertiser publishing a new mission.
//
// Responses:
// - 400 Bad Request: invalid body.
// - 401 Unauthorized: no advertiser identity on the request.
// - 201 Created: the mission was created.
func (a Api) CreateMission(c *gin.Context) {
	var newMission model2.CreateMission
	if err := c.ShouldBindJSON(&newMission); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newMission.ValidateCreateMission(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	advertiserID, _ := caller(c)
	resp, err := a.premiads.CreateMission(c.Request.Context(), newMission.ToMission(advertiserID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetMission retrieves a mission by ID.
func (a Api) GetMission(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.premiads.GetMission(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAdvertiserMissions lists the calling advertiser's missions, newest
// first.
func (a Api) GetAdvertiserMissions(c *gin.Context) {
	advertiserID, role := caller(c)
	if role != middleware.RoleAdvertiser && role != middleware.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Mission listing requires the advertiser role"})
		return
	}
	if override := c.Query("advertiser_id"); override != "" && role == middleware.RoleAdmin {
		advertiserID = override
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

	resp, err := a.premiads.GetAdvertiserMissions(c.Request.Context(), advertiserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
