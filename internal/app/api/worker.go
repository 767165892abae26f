package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	checkoutactivities "github.com/Apurer/storefront-api/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/storefront-api/internal/platform/temporal/workflows/checkout"
)

const workerServiceName = "storefront-worker"

// RunWorker serves the checkout task queue until interrupted. It shares the
// API's storage settings, so both processes must point at the same Postgres
// and Redis for checkout to see the carts the API filled.
func RunWorker(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, workerServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()
	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()
	svc := buildServices(repos, cfg, publisher, instruments)

	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := checkoutactivities.NewActivities(svc.orders)
	w := worker.New(temporalClient, checkoutworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
