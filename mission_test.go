package premiads

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCreateMission(t *testing.T) {
	p, mock := newTestPremiAds(t)

	mission := model.Mission{
		AdvertiserID:   "adv_" + gofakeit.UUID(),
		Title:          "Share a store photo",
		Rifas:          100,
		CashbackReward: decimal.RequireFromString("5.00"),
		HasBadge:       true,
		BadgeImageURL:  "https://cdn.premiads.test/badge.png",
		Active:         true,
		MetaData:       map[string]interface{}{"category": "retail"},
	}

	mock.ExpectExec("INSERT INTO premiads.missions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := p.CreateMission(context.Background(), mission)
	assert.NoError(t, err)
	assert.Contains(t, created.MissionID, "msn_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateMissionRequiresAdvertiser(t *testing.T) {
	p, _ := newTestPremiAds(t)

	_, err := p.CreateMission(context.Background(), model.Mission{Title: "No owner"})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrUnauthenticated, apierror.CodeOf(err))
}

func TestCreateMissionRejectsNegativeRewards(t *testing.T) {
	p, _ := newTestPremiAds(t)

	_, err := p.CreateMission(context.Background(), model.Mission{
		AdvertiserID: "adv_1",
		Title:        "Bad reward",
		Rifas:        -5,
	})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = p.CreateMission(context.Background(), model.Mission{
		AdvertiserID:   "adv_1",
		Title:          "Bad cashback",
		CashbackReward: decimal.RequireFromString("-1.00"),
	})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestGetAdvertiserMissions(t *testing.T) {
	p, mock := newTestPremiAds(t)

	advertiserID := "adv_" + gofakeit.UUID()
	rows := sqlmock.NewRows(missionColumns).
		AddRow("msn_1", advertiserID, "Mission one", 100, "5.00", false, "", false, []byte(`[]`), true, time.Now(), []byte(`{}`)).
		AddRow("msn_2", advertiserID, "Mission two", 50, "0", false, "", true, []byte(`[{"type":"rifas","amount":"10","weight":1}]`), true, time.Now(), []byte(`{}`))

	mock.ExpectQuery("SELECT mission_id").
		WithArgs(advertiserID, 50, 0).
		WillReturnRows(rows)

	missions, err := p.GetAdvertiserMissions(context.Background(), advertiserID, 50, 0)
	assert.NoError(t, err)
	assert.Len(t, missions, 2)
	assert.Equal(t, "Mission one", missions[0].Title)
	assert.Len(t, missions[1].LootBoxRewards, 1)
}
