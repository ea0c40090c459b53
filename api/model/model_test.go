package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/premiads/premiads/model"
)

func TestValidateCreateSubmission(t *testing.T) {
	valid := CreateSubmission{MissionID: "msn_1", Data: map[string]interface{}{"proof_url": "https://proof.test"}}
	assert.NoError(t, valid.ValidateCreateSubmission())

	missing := CreateSubmission{}
	assert.Error(t, missing.ValidateCreateSubmission())
}

func TestValidateSubmissionDecision(t *testing.T) {
	valid := SubmissionDecision{Decision: "approve", Stage: model.StageFirstReview}
	assert.NoError(t, valid.ValidateSubmissionDecision())

	badDecision := SubmissionDecision{Decision: "maybe", Stage: model.StageFirstReview}
	assert.Error(t, badDecision.ValidateSubmissionDecision())

	badStage := SubmissionDecision{Decision: "reject", Stage: "third_instance"}
	assert.Error(t, badStage.ValidateSubmissionDecision())

	empty := SubmissionDecision{}
	assert.Error(t, empty.ValidateSubmissionDecision())
}

func TestValidateCreateMission(t *testing.T) {
	valid := CreateMission{Title: "Store photo", Rifas: 100, CashbackReward: 5}
	assert.NoError(t, valid.ValidateCreateMission())

	missingTitle := CreateMission{Rifas: 100}
	assert.Error(t, missingTitle.ValidateCreateMission())

	badLootBox := CreateMission{Title: "Box", LootBoxRewards: []LootBoxReward{{Amount: 10}}}
	assert.Error(t, badLootBox.ValidateCreateMission())
}

func TestToMission(t *testing.T) {
	req := CreateMission{
		Title:          "Store photo",
		Rifas:          100,
		CashbackReward: 5.5,
		LootBoxRewards: []LootBoxReward{{Type: "rifas", Amount: 10, Weight: 2}},
	}

	mission := req.ToMission("adv_1")
	assert.Equal(t, "adv_1", mission.AdvertiserID)
	assert.Equal(t, "5.5", mission.CashbackReward.String())
	assert.True(t, mission.Active)
	assert.True(t, mission.HasLootBox)
	assert.Len(t, mission.LootBoxRewards, 1)
	assert.Equal(t, int64(2), mission.LootBoxRewards[0].Weight)

	inactive := false
	req.Active = &inactive
	mission = req.ToMission("adv_1")
	assert.False(t, mission.Active)
}
