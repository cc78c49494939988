package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/config"
	"github.com/example/furniture-shop/internal/email"
	"github.com/example/furniture-shop/internal/events"
	"github.com/example/furniture-shop/internal/notification"
)

const consumerGroup = "email-notifier"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	logger := log.WithField("component", "notifier")
	logger.WithFields(log.Fields{
		"kafka": cfg.KafkaBrokers,
		"topic": cfg.KafkaTopic,
		"group": consumerGroup,
		"smtp":  cfg.SMTPHost + ":" + cfg.SMTPPort,
	}).Info("starting email notifier")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc)

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup)
	defer consumer.Close()

	go func() {
		logger.Info("consuming order events")
		if err := consumer.Consume(ctx, handler.HandleMessage); err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("consumer stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
}
