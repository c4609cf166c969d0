// Package models содержит доменные структуры: учётные записи, планы подписки,
// больницы, подписки и аутентифицированного субъекта запроса.
package models

import "time"

// ProvisioningStatus — состояние администратора в процессе подключения больницы.
type ProvisioningStatus string

const (
	// ProvisioningRegistered — учётная запись создана, план не выбран.
	ProvisioningRegistered ProvisioningStatus = "REGISTERED"
	// ProvisioningPlanStaged — план выбран, больница ещё не создана.
	ProvisioningPlanStaged ProvisioningStatus = "PLAN_STAGED"
	// ProvisioningProvisioned — больница и подписка созданы.
	ProvisioningProvisioned ProvisioningStatus = "PROVISIONED"
)

// SuperAdmin — оператор платформы. Создаётся только сидированием.
type SuperAdmin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User — сотрудник больницы или её администратор.
type User struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              *string            `json:"phone,omitempty"`
	PasswordHash       string             `json:"-"`
	Role               Role               `json:"role"`
	HospitalID         *string            `json:"hospitalId"`
	DepartmentID       *string            `json:"departmentId,omitempty"`
	ProvisioningStatus ProvisioningStatus `json:"provisioningStatus"`
	StagedPlanID       *string            `json:"stagedPlanId,omitempty"`
	IsActive           bool               `json:"isActive"`
	LastLoginAt        *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`

	Hospital   *Hospital   `json:"hospital,omitempty"`
	Department *Department `json:"department,omitempty"`
}

// Department — отделение больницы, к которому может быть привязан сотрудник.
type Department struct {
	ID         string `json:"id"`
	HospitalID string `json:"hospitalId"`
	Name       string `json:"name"`
}
