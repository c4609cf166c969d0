package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

const subscriptionColumns = `id, hospital_id, plan_id, start_date, end_date, status, created_at, updated_at`

func scanSubscription(row scanner) (*models.Subscription, error) {
	var (
		sub    models.Subscription
		status string
	)
	if err := row.Scan(&sub.ID, &sub.HospitalID, &sub.PlanID, &sub.StartDate, &sub.EndDate,
		&status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatus(status)
	return &sub, nil
}

func insertSubscription(ctx context.Context, q querier, hospitalID, planID string, start, end time.Time) (*models.Subscription, error) {
	query := `INSERT INTO subscriptions (hospital_id, plan_id, start_date, end_date, status)
			  VALUES ($1, $2, $3, $4, 'ACTIVE')
			  RETURNING ` + subscriptionColumns
	return scanSubscription(q.QueryRowContext(ctx, query, hospitalID, planID, start, end))
}

// UpsertSubscription создаёт подписку больницы или продлевает существующую:
// план, дата окончания и статус заменяются, дата начала сохраняется.
func (s *Storage) UpsertSubscription(ctx context.Context, hospitalID, planID string, start, end time.Time) (*models.Subscription, error) {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (hospital_id, plan_id, start_date, end_date, status)
			  VALUES ($1, $2, $3, $4, 'ACTIVE')
			  ON CONFLICT (hospital_id) DO UPDATE
			  SET plan_id = EXCLUDED.plan_id,
			      end_date = EXCLUDED.end_date,
			      status = 'ACTIVE',
			      updated_at = NOW()
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, hospitalID, planID, start, end))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscriptionByHospital возвращает подписку больницы.
func (s *Storage) GetSubscriptionByHospital(ctx context.Context, hospitalID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByHospital"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE hospital_id = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, hospitalID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CountSubscriptions возвращает количество подписок; при onlyActive — только активных.
func (s *Storage) CountSubscriptions(ctx context.Context, onlyActive bool) (int, error) {
	const op = "storage.CountSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions`
	if onlyActive {
		query += ` WHERE status = 'ACTIVE'`
	}
	var n int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ExpireSubscriptions переводит в EXPIRED активные подписки, срок которых
// закончился до now, и возвращает их.
func (s *Storage) ExpireSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	const op = "storage.ExpireSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'EXPIRED', updated_at = NOW()
			  WHERE status = 'ACTIVE' AND end_date < $1
			  RETURNING ` + subscriptionColumns
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var expired []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		expired = append(expired, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return expired, nil
}
