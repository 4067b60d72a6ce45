/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/carverauto/camcontrol/pkg/config"
	"github.com/carverauto/camcontrol/pkg/confirm"
	"github.com/carverauto/camcontrol/pkg/core"
	"github.com/carverauto/camcontrol/pkg/core/api"
	"github.com/carverauto/camcontrol/pkg/lifecycle"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/natsutil"
	"github.com/carverauto/camcontrol/pkg/presets"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	configPath := flag.String("config", "/etc/camcontrol/core.json", "Path to core config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("Fatal error running camera control service: %v", err)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	var cfg core.ServiceConfig

	cfgLoader := config.NewConfig(nil)
	if err := cfgLoader.LoadAndValidate(ctx, configPath, &cfg); err != nil {
		return err
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
	}

	appLogger, err := logger.New(logCfg)
	if err != nil {
		return err
	}

	presetTable, err := presets.Load(cfg.PresetsFile)
	if err != nil {
		return err
	}

	nc, err := natsutil.Connect(cfg.NATSURL, appLogger.WithComponent("nats"))
	if err != nil {
		return err
	}

	bus := natsutil.NewBus(nc)
	store := confirm.NewStore()
	hub := api.NewHub(cfg.CORS, appLogger.WithComponent("stream"))

	orchestrator := confirm.NewOrchestrator(
		store, bus, confirm.NewPollAwaiter(store), hub,
		appLogger.WithComponent("confirm"),
		confirm.WithInquiryWait(time.Duration(cfg.InquiryWait)),
		confirm.WithRetryBackoff(time.Duration(cfg.RetryBackoff)))

	handler := confirm.NewInquiryHandler(store, bus, appLogger.WithComponent("inquiry"))
	listener := natsutil.NewListener(nc, handler, appLogger.WithComponent("listener"))

	service := core.NewService(&cfg, orchestrator, listener, bus, appLogger)
	apiServer := api.NewAPIServer(service, presetTable, hub,
		cfg.CORS, cfg.MaxAttempts, appLogger.WithComponent("api"))

	defer hub.Close()

	return lifecycle.Run(ctx, &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: "camcontrol",
		Service:     service,
		HTTPHandler: apiServer.Router(),
		Logger:      appLogger,
	})
}
