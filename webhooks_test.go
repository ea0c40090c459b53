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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/premiads/premiads/config"
	"github.com/premiads/premiads/model"
	"github.com/stretchr/testify/assert"
)

func webhookConfig(redisAddr, url string) *config.Configuration {
	cnf := &config.Configuration{
		Redis: config.RedisConfig{Dns: redisAddr},
		Queue: config.QueueConfig{WebhookQueue: "new:webhook", EscalationQueue: "new:escalation"},
	}
	cnf.Notification.Webhook.Url = url
	return cnf
}

func TestSendWebhook(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	cnf := webhookConfig(mr.Addr(), "https://localhost:5001/webhook")
	config.MockConfig(cnf)
	queue := NewQueue(cnf)

	testData := NewWebhook{
		Event: "submission.approved",
		Payload: model.Submission{
			SubmissionID: "sub_1",
			Status:       model.StatusApproved,
		},
	}

	err = queue.SendWebhook(testData)
	assert.NoError(t, err)

	// Verify that the task was enqueued
	tasks := mr.Keys()
	t.Log(tasks)
	assert.NotEmpty(t, tasks)
}

func TestSendWebhookSkipsWhenNotConfigured(t *testing.T) {
	cnf := webhookConfig("localhost:0", "")
	config.MockConfig(cnf)

	err := NewQueue(cnf).SendWebhook(NewWebhook{Event: "submission.received"})
	assert.NoError(t, err)
}

func TestProcessWebhookDelivers(t *testing.T) {
	received := make(chan NewWebhook, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var hook NewWebhook
		_ = json.NewDecoder(r.Body).Decode(&hook)
		received <- hook
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	config.MockConfig(webhookConfig("localhost:0", ts.URL))

	payload, err := json.Marshal(NewWebhook{Event: "submission.escalated", Payload: map[string]interface{}{"submission_id": "sub_1"}})
	assert.NoError(t, err)

	task := asynq.NewTask("new:webhook", payload)
	err = ProcessWebhook(nil, task)
	assert.NoError(t, err)

	hook := <-received
	assert.Equal(t, "submission.escalated", hook.Event)
}

func TestGetEventFromStatus(t *testing.T) {
	assert.Equal(t, "submission.received", getEventFromStatus(model.StatusPending))
	assert.Equal(t, "submission.in_progress", getEventFromStatus(model.StatusInProgress))
	assert.Equal(t, "submission.approved", getEventFromStatus(model.StatusApproved))
	assert.Equal(t, "submission.escalated", getEventFromStatus(model.StatusSecondInstancePending))
	assert.Equal(t, "submission.rejected", getEventFromStatus(model.StatusRejected))
	assert.Equal(t, "submission.unknown", getEventFromStatus("something else"))
}
