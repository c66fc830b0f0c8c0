package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/spendwise/internal/core/events"
	"github.com/frahmantamala/spendwise/internal/core/events/amqp"
	"github.com/frahmantamala/spendwise/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var eventCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Event management commands",
	Long:    `Publish test events and follow expense events forwarded to the broker.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event on the event bus, forwarding it to the broker when AMQP is enabled.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var tailEventCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print expense events from the broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tailEvents(cmd)
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType string) error {
	cfg, err := loadAndInit()
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.WildcardType, events.LogHandler(lg))

	if cfg.Events.AMQP.Enabled {
		broker, err := amqp.Dial(cfg.Events.AMQP, lg)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer broker.Close()
		eventBus.Subscribe(events.WildcardType, broker.Forwarder())
	}

	var testEvent events.Event
	switch eventType {
	case events.EventTypeExpenseDeleted:
		testEvent = events.NewExpenseDeletedEvent(0)
	default:
		created := events.NewExpenseCreatedEvent(0, eventData, 1, "Other", time.Now())
		created.Type = eventType
		testEvent = created
	}

	lg.Info("publishing test event", "event_type", testEvent.EventType(), "event_id", testEvent.EventID())
	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func tailEvents(cmd *cobra.Command) error {
	cfg, err := loadAndInit()
	if err != nil {
		return err
	}
	if !cfg.Events.AMQP.Enabled {
		return fmt.Errorf("events.amqp.enabled is false; nothing to tail")
	}
	lg := logger.LoggerWrapper()

	broker, err := amqp.Dial(cfg.Events.AMQP, lg)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer broker.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := broker.Consume(gctx, func(env events.Envelope) error {
			return enc.Encode(env)
		})
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Title carried by the test event")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(tailEventCmd)
}
