package models

import (
	"encoding/json"
	"time"
)

// PlanStatus — статус плана подписки. Планы не удаляются, а деактивируются.
type PlanStatus string

const (
	PlanActive   PlanStatus = "ACTIVE"
	PlanInactive PlanStatus = "INACTIVE"
)

// Значения по умолчанию для новых планов.
const (
	DefaultCurrency     = "USD"
	DefaultBillingCycle = "monthly"
	DefaultMaxUsers     = 10
	DefaultMaxPatients  = 1000
)

// Plan — определение плана подписки.
type Plan struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	BillingCycle string          `json:"billingCycle"`
	MaxUsers     int             `json:"maxUsers"`
	MaxPatients  int             `json:"maxPatients"`
	Features     json.RawMessage `json:"features"`
	Status       PlanStatus      `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsPurchasable сообщает, можно ли оформить подписку на план.
// Неактивный план равнозначен несуществующему.
func (p *Plan) IsPurchasable() bool {
	return p != nil && p.Status == PlanActive
}

// PlanUpdate — изменяемые поля плана. nil означает «не менять».
type PlanUpdate struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	Price        *float64        `json:"price" validate:"omitempty,gte=0"`
	Currency     *string         `json:"currency" validate:"omitempty,len=3"`
	BillingCycle *string         `json:"billingCycle" validate:"omitempty,oneof=monthly yearly"`
	MaxUsers     *int            `json:"maxUsers" validate:"omitempty,gt=0"`
	MaxPatients  *int            `json:"maxPatients" validate:"omitempty,gt=0"`
	Features     json.RawMessage `json:"features"`
	Status       *PlanStatus     `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// Empty сообщает, что ни одно поле не задано.
func (u PlanUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Currency == nil &&
		u.BillingCycle == nil && u.MaxUsers == nil && u.MaxPatients == nil &&
		len(u.Features) == 0 && u.Status == nil
}
