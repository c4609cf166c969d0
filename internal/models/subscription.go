package models

import "time"

// SubscriptionStatus — статус подписки больницы.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionSuspended SubscriptionStatus = "SUSPENDED"
)

// DefaultSubscriptionDays — срок подписки, оформляемой при создании больницы.
const DefaultSubscriptionDays = 30

// Subscription — единственная подписка больницы. Повторная покупка
// обновляет эту же запись.
type Subscription struct {
	ID         string             `json:"id"`
	HospitalID string             `json:"hospitalId"`
	PlanID     string             `json:"planId"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    time.Time          `json:"endDate"`
	Status     SubscriptionStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`

	Plan *Plan `json:"plan,omitempty"`
}

// SubscriptionWindow возвращает период подписки длиной days дней, начиная с now.
func SubscriptionWindow(now time.Time, days int) (time.Time, time.Time) {
	return now, now.Add(time.Duration(days) * 24 * time.Hour)
}
