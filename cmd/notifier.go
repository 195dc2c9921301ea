/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wecare-app/apiserver/config"
	"github.com/wecare-app/apiserver/internal/mq"
	"github.com/wecare-app/apiserver/internal/notifier"
)

// notifierCmd represents the notifier command
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Runs the event notification consumer",
	Long: `Consumes supply and volunteer events from the configured broker and
emits notifications. Requires MQ_BACKEND to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := newNotifierBroker(ctx, cfg)
		if err != nil {
			return err
		}
		defer broker.Close()

		if err := notifier.New(broker).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newNotifierBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "":
		return nil, errors.New("MQ_BACKEND is required for the notifier")
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
