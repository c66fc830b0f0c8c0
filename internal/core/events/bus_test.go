package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/spendwise/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	It("delivers events to handlers of the matching type and wildcard handlers", func() {
		var mu sync.Mutex
		var received []string

		record := func(name string) events.Handler {
			return func(_ context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				received = append(received, name+":"+e.EventType())
				return nil
			}
		}

		bus.Subscribe(events.EventTypeExpenseCreated, record("created"))
		bus.Subscribe(events.EventTypeExpenseDeleted, record("deleted"))
		bus.Subscribe(events.WildcardType, record("all"))

		Expect(bus.Publish(ctx, events.NewExpenseDeletedEvent(7))).To(Succeed())
		bus.Wait()

		Expect(received).To(ConsistOf("deleted:expense.deleted", "all:expense.deleted"))
	})

	It("keeps running handlers after the publishing context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		var handlerErr error
		bus.Subscribe(events.EventTypeExpenseDeleted, func(hctx context.Context, _ events.Event) error {
			handlerErr = hctx.Err()
			return nil
		})

		cancel()
		Expect(bus.Publish(cancelled, events.NewExpenseDeletedEvent(1))).To(Succeed())
		bus.Wait()

		Expect(handlerErr).NotTo(HaveOccurred())
	})

	It("returns nil when nobody listens", func() {
		Expect(bus.Publish(ctx, events.NewExpenseDeletedEvent(1))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewExpenseDeletedEvent(1))).To(Succeed())
	})

	It("surfaces the first failing handler in PublishSync", func() {
		bus.Subscribe(events.EventTypeExpenseDeleted, func(context.Context, events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(ctx, events.NewExpenseDeletedEvent(1))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})
})

var _ = Describe("Expense events", func() {
	It("carries the record in the payload", func() {
		e := events.NewExpenseCreatedEvent(3, "Lunch", 12.5, "Food", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

		Expect(e.EventType()).To(Equal(events.EventTypeExpenseCreated))
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("expense_id", int64(3)))
		Expect(e.Payload()).To(HaveKeyWithValue("category", "Food"))
	})

	It("converts to a broker envelope", func() {
		e := events.NewExpenseDeletedEvent(9)
		env := events.ToEnvelope(e)

		Expect(env.ID).To(Equal(e.EventID()))
		Expect(env.Type).To(Equal(events.EventTypeExpenseDeleted))
		Expect(env.Data).To(HaveKeyWithValue("expense_id", int64(9)))
	})
})
