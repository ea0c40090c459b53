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

package premiads

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pkg/errors"

	"github.com/premiads/premiads/config"
	redis_db "github.com/premiads/premiads/internal/redis-db"
	"github.com/premiads/premiads/model"

	"github.com/hibiken/asynq"
)

// Queue represents a queue for handling escalation and notification tasks.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// EscalationPayload is the task body for a second instance escalation.
type EscalationPayload struct {
	Data model.Submission
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// queueEscalationAlert enqueues an escalation task for a submission that was
// rejected at first review. The task ID is the submission ID, so a retried
// rejection cannot enqueue the alert twice.
func (q *Queue) queueEscalationAlert(_ context.Context, submission *model.Submission) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(EscalationPayload{Data: *submission})
	if err != nil {
		return errors.Wrap(err, "marshaling escalation payload")
	}
	taskOptions := []asynq.Option{
		asynq.TaskID(submission.SubmissionID),
		asynq.Queue(cfg.Queue.EscalationQueue),
	}
	task := asynq.NewTask(cfg.Queue.EscalationQueue, payload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return errors.Wrap(err, "enqueueing escalation alert")
	}
	log.Printf(" [*] Successfully enqueued escalation: %+v", info.ID)
	return nil
}

// ProcessEscalationAlert consumes an escalation task: it emits the
// submission.escalated webhook so admin tooling picks the case up.
func (p *PremiAds) ProcessEscalationAlert(_ context.Context, task *asynq.Task) error {
	var payload EscalationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return errors.Wrap(err, "unmarshaling escalation payload")
	}
	log.Printf("Processing escalation for submission: %s", payload.Data.SubmissionID)

	err := p.queue.SendWebhook(NewWebhook{
		Event:   "submission.escalated",
		Payload: payload.Data,
	})
	if err != nil {
		return errors.Wrap(err, "notifying escalation")
	}
	return nil
}
