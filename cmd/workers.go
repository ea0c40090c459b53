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

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/premiads/premiads"
	"github.com/premiads/premiads/config"
	redis_db "github.com/premiads/premiads/internal/redis-db"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
)

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	queues := make(map[string]int)
	queues[cfg.Queue.WebhookQueue] = 3
	queues[cfg.Queue.EscalationQueue] = 3
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: conf.Queue.NumberOfWorkers,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(mux *asynq.ServeMux, b *premiadsInstance) {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return
	}

	mux.HandleFunc(cfg.Queue.WebhookQueue, premiads.ProcessWebhook)
	mux.HandleFunc(cfg.Queue.EscalationQueue, b.premiads.ProcessEscalationAlert)
}

// workerCommands defines the "workers" command: it consumes the webhook and
// escalation queues and serves asynqmon for queue monitoring.
func workerCommands(b *premiadsInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start premiads workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			phClient, shutdown, err := initializeObservability(ctx, conf)
			if err != nil {
				log.Fatal(err)
			}
			if shutdown != nil {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error during shutdown: %v", err)
					}
				}()
			}
			if phClient != nil {
				defer phClient.Close()
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(mux, b)

			if conf.Queue.EnableMonitoring {
				redisOption, _ := redis_db.ParseRedisURL(conf.Redis.Dns)
				h := asynqmon.New(asynqmon.Options{
					RootPath: "/monitoring",
					RedisConnOpt: asynq.RedisClientOpt{
						Addr:      redisOption.Addr,
						Password:  redisOption.Password,
						DB:        redisOption.DB,
						TLSConfig: redisOption.TLSConfig,
					},
				})

				go func() {
					monitoringAddr := fmt.Sprintf(":%s", conf.Queue.MonitoringPort)
					log.Printf("Asynqmon server listening on %s/monitoring", monitoringAddr)
					if err := http.ListenAndServe(monitoringAddr, h); err != nil {
						log.Printf("Error starting asynqmon server: %v", err)
					}
				}()
			}

			log.Println("Starting worker server...")
			if err := srv.Run(mux); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
