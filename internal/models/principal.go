package models

// Principal — аутентифицированный субъект запроса.
// Ровно одно из полей SuperAdmin или User заполнено.
type Principal struct {
	ID         string
	Email      string
	Role       Role
	HospitalID *string
	SuperAdmin *SuperAdmin
	User       *User
}

// HasHospital сообщает, привязан ли субъект к больнице.
func (p *Principal) HasHospital() bool {
	return p != nil && p.HospitalID != nil && *p.HospitalID != ""
}
