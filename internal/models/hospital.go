package models

import "time"

// HospitalStatus — административный статус больницы.
type HospitalStatus string

const (
	HospitalActive   HospitalStatus = "ACTIVE"
	HospitalInactive HospitalStatus = "INACTIVE"
)

// Hospital — арендатор платформы.
type Hospital struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Address       *string        `json:"address,omitempty"`
	City          *string        `json:"city,omitempty"`
	State         *string        `json:"state,omitempty"`
	Country       *string        `json:"country,omitempty"`
	Pincode       *string        `json:"pincode,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	Email         *string        `json:"email,omitempty"`
	Website       *string        `json:"website,omitempty"`
	LicenseNumber *string        `json:"licenseNumber,omitempty"`
	Status        HospitalStatus `json:"status"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Subscription *Subscription `json:"subscription,omitempty"`
}

// HospitalInput — поля, из которых создаётся больница и которые разрешено
// менять через профиль. Всё, что не перечислено, изменить нельзя.
type HospitalInput struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	Pincode       *string `json:"pincode" validate:"omitempty,max=20"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Website       *string `json:"website"`
	LicenseNumber *string `json:"licenseNumber"`
}

// Empty сообщает, что ни одно поле не задано.
func (in HospitalInput) Empty() bool {
	return in.Name == nil && in.Address == nil && in.City == nil && in.State == nil &&
		in.Country == nil && in.Pincode == nil && in.Phone == nil && in.Email == nil &&
		in.Website == nil && in.LicenseNumber == nil
}

// HospitalCounts — количество сотрудников и пациентов больницы.
type HospitalCounts struct {
	Users    int `json:"users"`
	Patients int `json:"patients"`
}

// HospitalDetails — больница с подпиской, планом и счётчиками.
type HospitalDetails struct {
	Hospital
	Count HospitalCounts `json:"_count"`
}
