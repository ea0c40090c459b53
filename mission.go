package premiads

import (
	"context"
	"time"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"
)

// CreateMission persists a new mission for an advertiser. Missions are
// created active unless the caller says otherwise.
func (p *PremiAds) CreateMission(ctx context.Context, mission model.Mission) (model.Mission, error) {
	ctx, span := tracer.Start(ctx, "Creating mission")
	defer span.End()

	if mission.AdvertiserID == "" {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrUnauthenticated, "A signed-in advertiser is required to create a mission", nil)
	}
	if mission.Title == "" {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrBadRequest, "Mission title is required", nil)
	}
	if mission.Rifas < 0 {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Rifas reward cannot be negative", nil)
	}
	if mission.CashbackReward.IsNegative() {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Cashback reward cannot be negative", nil)
	}
	mission.CreatedAt = time.Now()
	return p.datasource.CreateMission(ctx, mission)
}

// GetMission retrieves a mission by ID.
func (p *PremiAds) GetMission(ctx context.Context, missionID string) (*model.Mission, error) {
	ctx, span := tracer.Start(ctx, "Getting mission")
	defer span.End()
	return p.datasource.GetMission(ctx, missionID)
}

// GetAdvertiserMissions returns an advertiser's missions, newest first.
func (p *PremiAds) GetAdvertiserMissions(ctx context.Context, advertiserID string, limit, offset int) ([]model.Mission, error) {
	ctx, span := tracer.Start(ctx, "Listing advertiser missions")
	defer span.End()
	return p.datasource.GetMissionsByAdvertiser(ctx, advertiserID, limit, offset)
}
