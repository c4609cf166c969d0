// Package scheduler периодически переводит просроченные подписки в EXPIRED
// и публикует событие для каждой из них.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// EventSubscriptionExpired публикуется для каждой просроченной подписки.
const EventSubscriptionExpired = "subscription.expired"

type SubscriptionRepository interface {
	ExpireSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error)
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type Metrics interface {
	Transition(name string)
}

type Service struct {
	repo      SubscriptionRepository
	publisher Publisher
	metrics   Metrics
	interval  time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр Service. interval — пауза между проверками,
// неположительное значение заменяется часом.
func New(repo SubscriptionRepository, publisher Publisher, metrics Metrics, interval time.Duration,
	log *slog.Logger) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// Run выполняет проверку сразу и затем каждые interval, пока ctx не отменён.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("subscription expiry scheduler started", slog.Duration("interval", s.interval))
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("subscription expiry scheduler stopped")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	if _, err := s.ExpireDue(ctx); err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
	}
}

// ExpireDue переводит просроченные подписки в EXPIRED и возвращает их количество.
// Ошибка публикации события только логируется.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	const op = "scheduler.ExpireDue"

	expired, err := s.repo.ExpireSubscriptions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(expired) == 0 {
		s.log.Debug("no expired subscriptions found")
		return 0, nil
	}

	s.log.Info("expired subscriptions", slog.Int("count", len(expired)))
	for _, sub := range expired {
		s.metrics.Transition(EventSubscriptionExpired)
		if err := s.publisher.Publish(ctx, EventSubscriptionExpired, sub); err != nil {
			s.log.Error("failed to publish event",
				slog.String("event", EventSubscriptionExpired),
				slog.String("hospital_id", sub.HospitalID),
				sl.Err(err))
		}
	}
	return len(expired), nil
}
