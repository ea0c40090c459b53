package api

import (
	"fmt"

	"github.com/premiads/premiads/config"

	"github.com/premiads/premiads/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/premiads/premiads"
)

type Api struct {
	premiads *premiads.PremiAds
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/submissions", a.RecordSubmission)
	router.GET("/submissions/second-instance", a.GetSecondInstanceQueue)
	router.GET("/submissions/:id", a.GetSubmission)
	router.POST("/submissions/:id/decision", a.DecideSubmission)
	router.GET("/submissions/:id/reward", a.GetSubmissionReward)

	router.POST("/missions", a.CreateMission)
	router.GET("/missions", a.GetAdvertiserMissions)
	router.GET("/missions/:id", a.GetMission)
	router.GET("/missions/:id/submissions", a.GetMissionSubmissions)

	router.GET("/participants/:id/balance", a.GetParticipantBalance)

	return a.router
}

func NewAPI(p *premiads.PremiAds) (*Api, error) {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}
	r.Use(middleware.RateLimitMiddleware(conf))
	r.Use(middleware.IdentityMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	r.POST("/webhook", func(c *gin.Context) {
		var payload map[string]interface{}
		err := c.Bind(&payload)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(payload)
		c.JSON(200, "webhook received")
	})

	return &Api{premiads: p, router: r}, nil
}
