package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/oregon-fire-report/internal/adapter/kafka"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

func publishCmd(a *app) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the cleaned fire records to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("topic") {
				a.cfg.KafkaTopic = topic
			}
			return a.publish(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "destination topic (overrides KAFKA_TOPIC)")
	return cmd
}

func (a *app) publish(parent context.Context) (err error) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, clean, err := report.LoadClean(a.loader(), a.logger, a.metrics)
	if err != nil {
		a.logger.Error("publish aborted", "error", err)
		return err
	}

	writer := kafkaadapter.NewWriter(a.cfg, a.metrics, a.logger)
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	return report.Publish(ctx, clean.Records, writer, report.DefaultBackoff, a.logger)
}
