package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetParticipantBalance returns a participant's accumulated rifas and
// cashback. Unknown participants read as zero rather than 404, since a
// participant with no approved submissions legitimately has an empty
// balance.
func (a Api) GetParticipantBalance(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.premiads.GetParticipantBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
