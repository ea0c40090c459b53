package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/lib/pq"
)

func (d Datasource) CreateMission(ctx context.Context, mission model.Mission) (model.Mission, error) {
	metaDataJSON, err := json.Marshal(mission.MetaData)
	if err != nil {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	lootBoxJSON, err := json.Marshal(mission.LootBoxRewards)
	if err != nil {
		return model.Mission{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal loot box rewards", err)
	}

	mission.MissionID = model.GenerateUUIDWithSuffix("msn")
	mission.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO premiads.missions (mission_id, advertiser_id, title, rifas, cashback_reward, has_badge, badge_image_url, has_lootbox, lootbox_rewards, active, created_at, meta_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, mission.MissionID, mission.AdvertiserID, mission.Title, mission.Rifas, mission.CashbackReward, mission.HasBadge, mission.BadgeImageURL, mission.HasLootBox, lootBoxJSON, mission.Active, mission.CreatedAt, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Mission{}, apierror.NewAPIError(apierror.ErrConflict, "Mission with this ID already exists", err)
			default:
				return model.Mission{}, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Database error occurred", err)
			}
		}
		return model.Mission{}, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to create mission", err)
	}

	return mission, nil
}

// GetMission reads a mission definition, serving repeat lookups from cache.
// Missions change rarely but are read on every submission and approval.
func (d Datasource) GetMission(ctx context.Context, id string) (*model.Mission, error) {
	cacheKey := fmt.Sprintf("mission:%s", id)

	var cached model.Mission
	if d.Cache != nil {
		err := d.Cache.Get(ctx, cacheKey, &cached)
		if err == nil && cached.MissionID != "" {
			return &cached, nil
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT mission_id, advertiser_id, title, rifas, cashback_reward, has_badge, COALESCE(badge_image_url, ''), has_lootbox, lootbox_rewards, active, created_at, meta_data
		FROM premiads.missions
		WHERE mission_id = $1
	`, id)

	mission := &model.Mission{}
	var lootBoxJSON []byte
	var metaDataJSON []byte
	err := row.Scan(&mission.MissionID, &mission.AdvertiserID, &mission.Title, &mission.Rifas, &mission.CashbackReward, &mission.HasBadge, &mission.BadgeImageURL, &mission.HasLootBox, &lootBoxJSON, &mission.Active, &mission.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Mission with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve mission", err)
	}

	err = json.Unmarshal(lootBoxJSON, &mission.LootBoxRewards)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal loot box rewards", err)
	}

	err = json.Unmarshal(metaDataJSON, &mission.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, cacheKey, mission, 5*time.Minute); err != nil {
			// Cache write failure is not fatal, the store remains authoritative.
			log.Printf("Failed to cache mission: %v", err)
		}
	}

	return mission, nil
}

func (d Datasource) GetMissionsByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]model.Mission, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT mission_id, advertiser_id, title, rifas, cashback_reward, has_badge, COALESCE(badge_image_url, ''), has_lootbox, lootbox_rewards, active, created_at, meta_data
		FROM premiads.missions
		WHERE advertiser_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, advertiserID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve missions", err)
	}
	defer rows.Close()

	missions := []model.Mission{}

	for rows.Next() {
		mission := model.Mission{}
		var lootBoxJSON []byte
		var metaDataJSON []byte
		err = rows.Scan(&mission.MissionID, &mission.AdvertiserID, &mission.Title, &mission.Rifas, &mission.CashbackReward, &mission.HasBadge, &mission.BadgeImageURL, &mission.HasLootBox, &lootBoxJSON, &mission.Active, &mission.CreatedAt, &metaDataJSON)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan mission data", err)
		}

		err = json.Unmarshal(lootBoxJSON, &mission.LootBoxRewards)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal loot box rewards", err)
		}

		err = json.Unmarshal(metaDataJSON, &mission.MetaData)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}

		missions = append(missions, mission)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Error occurred while iterating over missions", err)
	}

	return missions, nil
}
