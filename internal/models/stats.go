package models

// DashboardStats — агрегаты для панели супер-администратора.
type DashboardStats struct {
	TotalHospitals      int `json:"totalHospitals"`
	ActiveHospitals     int `json:"activeHospitals"`
	TotalSubscriptions  int `json:"totalSubscriptions"`
	ActiveSubscriptions int `json:"activeSubscriptions"`
	TotalPlans          int `json:"totalPlans"`
}

// AdminProfile — профиль администратора с больницей и выбранным планом.
type AdminProfile struct {
	User
	StagedPlan *Plan `json:"stagedPlan,omitempty"`
}
