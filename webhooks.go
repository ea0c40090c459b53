/*
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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/premiads/premiads/config"
	"github.com/premiads/premiads/model"

	"github.com/hibiken/asynq"
)

// NewWebhook represents the structure of a webhook notification.
// It includes an event type and associated payload data.
type NewWebhook struct {
	Event   string      `json:"event"` // The event type that triggered the webhook.
	Payload interface{} `json:"data"`  // The data associated with the event.
}

// getEventFromStatus maps a submission status to a corresponding event string.
func getEventFromStatus(status string) string {
	switch strings.ToLower(status) {
	case strings.ToLower(model.StatusPending):
		return "submission.received"
	case strings.ToLower(model.StatusInProgress):
		return "submission.in_progress"
	case strings.ToLower(model.StatusApproved):
		return "submission.approved"
	case strings.ToLower(model.StatusSecondInstancePending):
		return "submission.escalated"
	case strings.ToLower(model.StatusRejected):
		return "submission.rejected"
	default:
		return "submission.unknown"
	}
}

// processHTTP delivers a webhook notification via HTTP POST, retrying
// transient failures with exponential backoff before giving up and letting
// asynq reschedule the task.
func processHTTP(data NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		log.Println("Error fetching config:", err)
		return err
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Println("Error marshaling data:", err)
		return err
	}

	deliver := func() error {
		req, err := http.NewRequest("POST", conf.Notification.Webhook.Url, bytes.NewBuffer(jsonData))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		for key, value := range conf.Notification.Webhook.Headers {
			req.Header.Set(key, value)
		}

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logrus.Error(err)
			}
		}(resp.Body)

		if resp.StatusCode >= 500 {
			return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Printf("Webhook rejected with status code: %d\n", resp.StatusCode)
			return nil
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
	if err := backoff.Retry(deliver, policy); err != nil {
		log.Println("Error sending webhook:", err)
		return err
	}

	log.Println("Webhook notification sent successfully:", data.Event)
	return nil
}

// SendWebhook enqueues a webhook notification task on the shared queue
// client. It is a no-op when no webhook URL is configured.
func (q *Queue) SendWebhook(newWebhook NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	payload, err := json.Marshal(newWebhook)
	if err != nil {
		log.Println("Error marshaling webhook:", err)
		return err
	}
	taskOptions := []asynq.Option{asynq.Queue(conf.Queue.WebhookQueue)}
	task := asynq.NewTask(conf.Queue.WebhookQueue, payload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	return err
}

// ProcessWebhook processes a webhook notification task from the queue.
func ProcessWebhook(_ context.Context, task *asynq.Task) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	if conf.Notification.Webhook.Url == "" {
		return nil
	}
	var payload NewWebhook
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Printf("Error unmarshaling task payload: %v", err)
		return err
	}
	log.Printf("Processing webhook: %+v\n", payload.Event)
	err = processHTTP(payload)
	if err != nil {
		return err
	}
	return nil
}
