package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/crspy2/alterabot/internal/backend"
	"github.com/crspy2/alterabot/internal/bot"
	"github.com/crspy2/alterabot/internal/config"
	"github.com/crspy2/alterabot/internal/provider"
	"github.com/crspy2/alterabot/internal/service"
	"github.com/crspy2/alterabot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err = logger.Initialize(); err != nil {
		log.Fatalf("error starting logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	providerClient := provider.New(cfg.ProviderAddress, cfg.ProviderAPIKey)
	backendClient := backend.New(cfg.BackendAddress, cfg.AdminToken)

	pricing := service.NewPricingService(providerClient)
	ledger := service.NewLedgerService(backendClient, cfg.PriceMultiplier)
	workflow := service.NewWorkflowService(providerClient, backendClient, pricing, ledger)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Log.Fatal("error creating bot", logger.Error(err))
	}

	handler := bot.NewHandler(api, cfg, workflow, ledger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	logger.Log.Info("bot started", logger.String("username", api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("shutting down")
			api.StopReceivingUpdates()
			return
		case upd := <-updates:
			// each update is an independent task; no state is shared
			// between them in-process
			go handler.HandleUpdate(ctx, upd)
		}
	}
}
