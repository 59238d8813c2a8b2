package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/swopnil/Guardify/internal/adapters/nats"
	"github.com/swopnil/Guardify/internal/adapters/postgres"
	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/pkg/config"
	"github.com/swopnil/Guardify/internal/pkg/logging"
	"github.com/swopnil/Guardify/internal/workflows"
)

func main() {
	cfg, err := config.Load("guardify-escalator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("guardify-escalator", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (activities read alerts and write dispatch records)
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.EscalationWorkflow)
	w.RegisterActivity(&workflows.EscalationActivities{
		Alerts:     postgres.NewAlertRepo(db.Pool),
		Dispatches: postgres.NewEscalationRepo(db.Pool),
		// Notifier stays nil until a push gateway exists; the activity
		// logs the notification instead.
	})

	// Escalation requests arrive over the broker's work queue.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	followUp := time.Duration(cfg.Temporal.FollowUpDelay) * time.Second
	err = sub.SubscribeEscalationRequests(ctx, func(ctx context.Context, req *domain.EscalationRequest) error {
		opts := client.StartWorkflowOptions{
			ID:        "escalation-" + req.AlertID,
			TaskQueue: cfg.Temporal.TaskQueue,
		}
		input := workflows.EscalationInput{
			AlertID:       req.AlertID,
			Kind:          string(req.Kind),
			Recipient:     cfg.Temporal.AlertRecipient,
			FollowUpDelay: followUp,
		}
		if _, err := c.ExecuteWorkflow(ctx, opts, workflows.EscalationWorkflow, input); err != nil {
			var already *serviceerror.WorkflowExecutionAlreadyStarted
			if errors.As(err, &already) {
				slog.Info("escalation already in flight", "alert_id", req.AlertID)
				return nil
			}
			return err
		}
		slog.Info("escalation workflow started", "alert_id", req.AlertID, "kind", req.Kind)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe escalations: %v", err)
	}

	slog.Info("escalation worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
