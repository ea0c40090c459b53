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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"PREMIADS_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"PREMIADS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"PREMIADS_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"PREMIADS_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"PREMIADS_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"PREMIADS_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"PREMIADS_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"PREMIADS_REDIS_DNS"`
}

type QueueConfig struct {
	WebhookQueue      string `json:"webhook_queue" envconfig:"PREMIADS_QUEUE_WEBHOOK"`
	EscalationQueue   string `json:"escalation_queue" envconfig:"PREMIADS_QUEUE_ESCALATION"`
	NumberOfWorkers   int    `json:"number_of_workers" envconfig:"PREMIADS_QUEUE_WORKERS"`
	MaxRetryAttempts  int    `json:"max_retry_attempts" envconfig:"PREMIADS_QUEUE_MAX_RETRY"`
	MonitoringPort    string `json:"monitoring_port" envconfig:"PREMIADS_QUEUE_MONITORING_PORT"`
	EnableMonitoring  bool   `json:"enable_monitoring" envconfig:"PREMIADS_QUEUE_ENABLE_MONITORING"`
}

// SubmissionConfig carries the moderation workflow policies that are not
// derivable from mission definitions.
type SubmissionConfig struct {
	// AllowResubmitAfterRejection controls whether a participant may submit
	// again for a mission whose previous submission ended in a final
	// rejection. Approved and in-flight submissions always block.
	AllowResubmitAfterRejection *bool `json:"allow_resubmit_after_rejection" envconfig:"PREMIADS_SUBMISSION_ALLOW_RESUBMIT_AFTER_REJECTION"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"PREMIADS_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"PREMIADS_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"PREMIADS_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName     string        `json:"project_name" envconfig:"PREMIADS_PROJECT_NAME"`
	EnableTelemetry *bool         `json:"enable_telemetry" envconfig:"PREMIADS_ENABLE_TELEMETRY"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Queue        QueueConfig      `json:"queue"`
	Submission   SubmissionConfig `json:"submission"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("premiads", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called premiads.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "PremiAds Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.EscalationQueue == "" {
		cnf.Queue.EscalationQueue = "new:escalation"
	}
	if cnf.Queue.NumberOfWorkers <= 0 {
		cnf.Queue.NumberOfWorkers = 10
	}
	if cnf.Queue.MaxRetryAttempts <= 0 {
		cnf.Queue.MaxRetryAttempts = 5
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = "5004"
	}

	if cnf.EnableTelemetry == nil {
		enable := true
		cnf.EnableTelemetry = &enable
	}

	// Resubmission after a final rejection is allowed unless switched off.
	if cnf.Submission.AllowResubmitAfterRejection == nil {
		allow := true
		cnf.Submission.AllowResubmitAfterRejection = &allow
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
