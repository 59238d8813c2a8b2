package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// EscalationInput is the input for the escalation workflow.
type EscalationInput struct {
	AlertID       string
	Kind          string
	Recipient     string
	FollowUpDelay time.Duration
}

// AlertBrief is the slice of an alert the workflow needs for notifications.
type AlertBrief struct {
	Message      string
	Kind         string
	Acknowledged bool
	Lat          float64
	Lon          float64
	HasLocation  bool
}

// maxDispatches caps notifications per alert so a redelivered escalation
// request cannot page security indefinitely.
const maxDispatches = 3

// EscalationWorkflow orchestrates notifying campus security about an
// emergency alert: record the dispatch, send the push, wait, and re-notify
// once if the alert is still unacknowledged. If a push fails, the dispatch
// record is deleted (saga compensation).
func EscalationWorkflow(ctx workflow.Context, input EscalationInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting escalation workflow", "alertID", input.AlertID, "kind", input.Kind)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: load the alert
	var alert AlertBrief
	err := workflow.ExecuteActivity(ctx, "LookupAlert", input.AlertID).Get(ctx, &alert)
	if err != nil {
		return err
	}
	if alert.Acknowledged {
		logger.Info("alert already acknowledged, nothing to do", "alertID", input.AlertID)
		return nil
	}

	var dispatched int
	err = workflow.ExecuteActivity(ctx, "CountDispatches", input.AlertID).Get(ctx, &dispatched)
	if err != nil {
		return err
	}
	if dispatched >= maxDispatches {
		logger.Warn("dispatch cap reached", "alertID", input.AlertID, "dispatched", dispatched)
		return nil
	}

	// Step 2: record the dispatch, then notify security
	if err := notifyOnce(ctx, input, alert, false); err != nil {
		return err
	}

	// Step 3: follow-up timer; re-notify if nobody acknowledged
	if input.FollowUpDelay <= 0 {
		return nil
	}
	if err := workflow.Sleep(ctx, input.FollowUpDelay); err != nil {
		return err
	}

	var acked bool
	err = workflow.ExecuteActivity(ctx, "CheckAcknowledged", input.AlertID).Get(ctx, &acked)
	if err != nil {
		return err
	}
	if acked {
		logger.Info("alert acknowledged before follow-up", "alertID", input.AlertID)
		return nil
	}

	if err := notifyOnce(ctx, input, alert, true); err != nil {
		return err
	}

	logger.Info("escalation complete", "alertID", input.AlertID)
	return nil
}

// notifyOnce records one dispatch and sends the push. A failed push deletes
// the dispatch record so the table only reflects notifications that went out.
func notifyOnce(ctx workflow.Context, input EscalationInput, alert AlertBrief, followUp bool) error {
	logger := workflow.GetLogger(ctx)

	var dispatchID string
	err := workflow.ExecuteActivity(ctx, "RecordDispatch", input.AlertID, input.Recipient, followUp).Get(ctx, &dispatchID)
	if err != nil {
		return err
	}

	err = workflow.ExecuteActivity(ctx, "NotifySecurity", input.Recipient, alert, followUp).Get(ctx, nil)
	if err != nil {
		logger.Warn("push notification failed, compensating", "error", err)
		_ = workflow.ExecuteActivity(ctx, "DeleteDispatch", dispatchID).Get(ctx, nil)
		return err
	}
	return nil
}
