package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

const hospitalColumns = `h.id, h.name, h.address, h.city, h.state, h.country, h.pincode, h.phone,
	h.email, h.website, h.license_number, h.status, h.is_active, h.created_at, h.updated_at`

// hospitalWithSubscription дополняет больницу подпиской и планом подписки.
const hospitalWithSubscription = `SELECT ` + hospitalColumns + `,
	sub.id, sub.plan_id, sub.start_date, sub.end_date, sub.status, sub.created_at, sub.updated_at,
	p.name, p.price, p.currency, p.billing_cycle, p.max_users, p.max_patients, p.features, p.status
FROM hospitals h
LEFT JOIN subscriptions sub ON sub.hospital_id = h.id
LEFT JOIN subscription_plans p ON p.id = sub.plan_id`

func hospitalDest(h *models.Hospital, opt *[9]sql.NullString, status *string) []any {
	return []any{&h.ID, &h.Name, &opt[0], &opt[1], &opt[2], &opt[3], &opt[4], &opt[5],
		&opt[6], &opt[7], &opt[8], status, &h.IsActive, &h.CreatedAt, &h.UpdatedAt}
}

func fillHospital(h *models.Hospital, opt *[9]sql.NullString, status string) {
	h.Address = nullString(opt[0])
	h.City = nullString(opt[1])
	h.State = nullString(opt[2])
	h.Country = nullString(opt[3])
	h.Pincode = nullString(opt[4])
	h.Phone = nullString(opt[5])
	h.Email = nullString(opt[6])
	h.Website = nullString(opt[7])
	h.LicenseNumber = nullString(opt[8])
	h.Status = models.HospitalStatus(status)
}

func scanHospital(row scanner) (*models.Hospital, error) {
	var (
		h      models.Hospital
		opt    [9]sql.NullString
		status string
	)
	if err := row.Scan(hospitalDest(&h, &opt, &status)...); err != nil {
		return nil, err
	}
	fillHospital(&h, &opt, status)
	return &h, nil
}

// scanHospitalWithSubscription читает строку hospitalWithSubscription и
// дополнительные колонки extra.
func scanHospitalWithSubscription(row scanner, extra ...any) (*models.Hospital, error) {
	var (
		h                                        models.Hospital
		opt                                      [9]sql.NullString
		status                                   string
		subID, subPlanID, subStatus              sql.NullString
		subStart, subEnd, subCreated, subUpdated sql.NullTime
		planName, planCurrency, planCycle        sql.NullString
		planStatus                               sql.NullString
		planPrice                                sql.NullFloat64
		planMaxUsers, planMaxPatients            sql.NullInt64
		planFeatures                             []byte
	)
	dest := hospitalDest(&h, &opt, &status)
	dest = append(dest, &subID, &subPlanID, &subStart, &subEnd, &subStatus, &subCreated, &subUpdated,
		&planName, &planPrice, &planCurrency, &planCycle, &planMaxUsers, &planMaxPatients,
		&planFeatures, &planStatus)
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	fillHospital(&h, &opt, status)

	if subID.Valid {
		h.Subscription = &models.Subscription{
			ID:         subID.String,
			HospitalID: h.ID,
			PlanID:     subPlanID.String,
			StartDate:  subStart.Time,
			EndDate:    subEnd.Time,
			Status:     models.SubscriptionStatus(subStatus.String),
			CreatedAt:  subCreated.Time,
			UpdatedAt:  subUpdated.Time,
		}
		if planName.Valid {
			h.Subscription.Plan = &models.Plan{
				ID:           subPlanID.String,
				Name:         planName.String,
				Price:        planPrice.Float64,
				Currency:     planCurrency.String,
				BillingCycle: planCycle.String,
				MaxUsers:     int(planMaxUsers.Int64),
				MaxPatients:  int(planMaxPatients.Int64),
				Features:     planFeatures,
				Status:       models.PlanStatus(planStatus.String),
			}
		}
	}
	return &h, nil
}

// HospitalEmailExists сообщает, занят ли email другой больницей.
// Больница excludeID при проверке не учитывается.
func (s *Storage) HospitalEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	const op = "storage.HospitalEmailExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM hospitals WHERE email = $1 AND id::text <> $2)`
	if err := s.DB.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetHospital возвращает больницу с подпиской и планом.
func (s *Storage) GetHospital(ctx context.Context, id string) (*models.Hospital, error) {
	const op = "storage.GetHospital"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	h, err := scanHospitalWithSubscription(s.DB.QueryRowContext(ctx, hospitalWithSubscription+` WHERE h.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return h, nil
}

// GetHospitalCounts возвращает количество сотрудников и пациентов больницы.
func (s *Storage) GetHospitalCounts(ctx context.Context, id string) (models.HospitalCounts, error) {
	const op = "storage.GetHospitalCounts"
	var counts models.HospitalCounts
	select {
	case <-ctx.Done():
		return counts, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
	(SELECT COUNT(*) FROM users WHERE hospital_id = $1),
	(SELECT COUNT(*) FROM patients WHERE hospital_id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&counts.Users, &counts.Patients); err != nil {
		return counts, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}

// ListHospitals возвращает все больницы, начиная с новых, с подпиской,
// планом и количеством сотрудников и пациентов.
func (s *Storage) ListHospitals(ctx context.Context) ([]models.HospitalDetails, error) {
	const op = "storage.ListHospitals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + hospitalColumns + `,
	sub.id, sub.plan_id, sub.start_date, sub.end_date, sub.status, sub.created_at, sub.updated_at,
	p.name, p.price, p.currency, p.billing_cycle, p.max_users, p.max_patients, p.features, p.status,
	(SELECT COUNT(*) FROM users u WHERE u.hospital_id = h.id),
	(SELECT COUNT(*) FROM patients pt WHERE pt.hospital_id = h.id)
FROM hospitals h
LEFT JOIN subscriptions sub ON sub.hospital_id = h.id
LEFT JOIN subscription_plans p ON p.id = sub.plan_id
ORDER BY h.created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.HospitalDetails, 0)
	for rows.Next() {
		var counts models.HospitalCounts
		h, err := scanHospitalWithSubscription(rows, &counts.Users, &counts.Patients)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, models.HospitalDetails{Hospital: *h, Count: counts})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateHospital изменяет только заданные поля профиля больницы.
func (s *Storage) UpdateHospital(ctx context.Context, id string, in models.HospitalInput) (*models.Hospital, error) {
	const op = "storage.UpdateHospital"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !in.Empty() {
		set := newSetBuilder()
		set.add("name", in.Name)
		set.add("address", in.Address)
		set.add("city", in.City)
		set.add("state", in.State)
		set.add("country", in.Country)
		set.add("pincode", in.Pincode)
		set.add("phone", in.Phone)
		set.add("email", in.Email)
		set.add("website", in.Website)
		set.add("license_number", in.LicenseNumber)

		query, args := set.build("hospitals", id, "id")
		var updatedID string
		if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&updatedID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	h, err := s.GetHospital(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return h, nil
}

// CountHospitals возвращает количество больниц; при onlyActive — только со статусом ACTIVE.
func (s *Storage) CountHospitals(ctx context.Context, onlyActive bool) (int, error) {
	const op = "storage.CountHospitals"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM hospitals`
	if onlyActive {
		query += ` WHERE status = 'ACTIVE'`
	}
	var n int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func insertHospital(ctx context.Context, q querier, in models.HospitalInput) (*models.Hospital, error) {
	query := `INSERT INTO hospitals AS h (name, address, city, state, country, pincode, phone,
			      email, website, license_number)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + hospitalColumns
	var name string
	if in.Name != nil {
		name = *in.Name
	}
	return scanHospital(q.QueryRowContext(ctx, query,
		name, in.Address, in.City, in.State, in.Country, in.Pincode, in.Phone,
		in.Email, in.Website, in.LicenseNumber))
}
