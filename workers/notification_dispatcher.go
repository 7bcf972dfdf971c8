package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"matchboard/repository"
)

// DirectMessenger delivers a private message to a Discord user.
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, discordUserID, content string) error
}

const dispatchBatchSize = 50

// NotificationDispatcher mirrors inbox notifications into Discord DMs for
// users with a linked account. Delivery is tracked separately from reading.
type NotificationDispatcher struct {
	store     repository.Store
	messenger DirectMessenger
	interval  time.Duration
	now       func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
}

func NewNotificationDispatcher(store repository.Store, messenger DirectMessenger, interval time.Duration) *NotificationDispatcher {
	return &NotificationDispatcher{
		store:     store,
		messenger: messenger,
		interval:  interval,
		now:       time.Now,
	}
}

// Start schedules DispatchOnce every interval. Runs never overlap.
func (d *NotificationDispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scheduler != nil {
		return fmt.Errorf("dispatcher already started")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	_, err = sched.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(func() {
			if _, err := d.DispatchOnce(jobCtx); err != nil {
				slog.Error("dispatcher: Run failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule dispatcher: %w", err)
	}

	sched.Start()
	d.scheduler = sched
	d.cancel = cancel
	slog.Info("dispatcher: Started", "interval", d.interval)
	return nil
}

func (d *NotificationDispatcher) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scheduler == nil {
		return nil
	}
	d.cancel()
	err := d.scheduler.Shutdown()
	d.scheduler = nil
	return err
}

// DispatchOnce sends one batch and returns how many were delivered. A failed
// send is logged and retried on the next run.
func (d *NotificationDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	pending, err := d.store.Notifications().ListUndelivered(ctx, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, n := range pending {
		if n.User == nil || n.User.DiscordID == nil {
			continue
		}
		if err := d.messenger.SendDirectMessage(ctx, *n.User.DiscordID, n.Type.Message()); err != nil {
			slog.Error("dispatcher: Failed to send DM", "error", err,
				"notification_id", n.ID, "user_id", n.UserID)
			continue
		}
		if err := d.store.Notifications().MarkDelivered(ctx, n.ID, d.now()); err != nil {
			return delivered, err
		}
		delivered++
	}

	if delivered > 0 {
		slog.Info("dispatcher: Delivered notifications", "count", delivered)
	}
	return delivered, nil
}
