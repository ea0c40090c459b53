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
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/premiads/premiads/model"
)

func (s *CreateSubmission) ValidateCreateSubmission() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.MissionID, validation.Required),
	)
}

func (d *SubmissionDecision) ValidateSubmissionDecision() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Decision, validation.Required, validation.In("approve", "reject")),
		validation.Field(&d.Stage, validation.Required, validation.In(model.StageFirstReview, model.StageSecondInstance)),
		validation.Field(&d.Feedback, validation.Length(0, 2000)),
	)
}

func (m *CreateMission) ValidateCreateMission() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Rifas, validation.Min(0)),
		validation.Field(&m.CashbackReward, validation.Min(0.0)),
		validation.Field(&m.LootBoxRewards, validation.By(func(value interface{}) error {
			rewards, _ := value.([]LootBoxReward)
			for _, r := range rewards {
				if err := validation.ValidateStruct(&r,
					validation.Field(&r.Type, validation.Required),
					validation.Field(&r.Weight, validation.Min(0)),
				); err != nil {
					return err
				}
			}
			return nil
		})),
	)
}

// ToMission converts a CreateMission request to a model.Mission.
func (m *CreateMission) ToMission(advertiserID string) model.Mission {
	active := true
	if m.Active != nil {
		active = *m.Active
	}
	rewards := make([]model.LootBoxReward, 0, len(m.LootBoxRewards))
	for _, r := range m.LootBoxRewards {
		rewards = append(rewards, model.LootBoxReward{
			Type:   r.Type,
			Amount: decimal.NewFromFloat(r.Amount),
			Weight: r.Weight,
		})
	}
	return model.Mission{
		AdvertiserID:   advertiserID,
		Title:          m.Title,
		Rifas:          m.Rifas,
		CashbackReward: decimal.NewFromFloat(m.CashbackReward),
		HasBadge:       m.HasBadge,
		BadgeImageURL:  m.BadgeImageURL,
		HasLootBox:     m.HasLootBox || len(rewards) > 0,
		LootBoxRewards: rewards,
		Active:         active,
		MetaData:       m.MetaData,
	}
}
