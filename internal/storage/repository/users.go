package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

// userSelect выбирает пользователя вместе с больницей, отделением и подпиской
// больницы. Все присоединённые таблицы могут отсутствовать.
const userSelect = `
SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role, u.hospital_id, u.department_id,
       u.provisioning_status, u.staged_plan_id, u.is_active, u.last_login_at, u.created_at, u.updated_at,
       h.name, h.status, h.is_active,
       d.name,
       sub.id, sub.plan_id, sub.status, sub.start_date, sub.end_date
FROM users u
LEFT JOIN hospitals h ON h.id = u.hospital_id
LEFT JOIN departments d ON d.id = u.department_id
LEFT JOIN subscriptions sub ON sub.hospital_id = u.hospital_id`

func scanUser(row scanner) (*models.User, error) {
	var (
		u                               models.User
		role, status                    string
		phone, hospitalID, departmentID sql.NullString
		stagedPlanID                    sql.NullString
		lastLogin                       sql.NullTime
		hospitalName, hospitalStatus    sql.NullString
		hospitalActive                  sql.NullBool
		departmentName                  sql.NullString
		subID, subPlanID, subStatus     sql.NullString
		subStart, subEnd                sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &phone, &u.PasswordHash, &role, &hospitalID,
		&departmentID, &status, &stagedPlanID, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
		&hospitalName, &hospitalStatus, &hospitalActive,
		&departmentName,
		&subID, &subPlanID, &subStatus, &subStart, &subEnd); err != nil {
		return nil, err
	}

	u.Role = models.Role(role)
	u.ProvisioningStatus = models.ProvisioningStatus(status)
	u.Phone = nullString(phone)
	u.HospitalID = nullString(hospitalID)
	u.DepartmentID = nullString(departmentID)
	u.StagedPlanID = nullString(stagedPlanID)
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}

	if hospitalID.Valid && hospitalName.Valid {
		u.Hospital = &models.Hospital{
			ID:       hospitalID.String,
			Name:     hospitalName.String,
			Status:   models.HospitalStatus(hospitalStatus.String),
			IsActive: hospitalActive.Bool,
		}
		if subID.Valid {
			u.Hospital.Subscription = &models.Subscription{
				ID:         subID.String,
				HospitalID: hospitalID.String,
				PlanID:     subPlanID.String,
				Status:     models.SubscriptionStatus(subStatus.String),
				StartDate:  subStart.Time,
				EndDate:    subEnd.Time,
			}
		}
	}
	if departmentID.Valid && departmentName.Valid {
		u.Department = &models.Department{
			ID:   departmentID.String,
			Name: departmentName.String,
		}
		if hospitalID.Valid {
			u.Department.HospitalID = hospitalID.String
		}
	}
	return &u, nil
}

// UserEmailExists сообщает, занят ли email каким-либо пользователем.
func (s *Storage) UserEmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.UserEmailExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateAdmin сохраняет администратора без больницы в состоянии REGISTERED.
func (s *Storage) CreateAdmin(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateAdmin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (name, email, phone, password_hash, role, provisioning_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, is_active, created_at, updated_at`
	user.Role = models.RoleAdmin
	user.ProvisioningStatus = models.ProvisioningRegistered
	user.HospitalID = nil
	user.StagedPlanID = nil
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.ProvisioningStatus,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email вместе с больницей и подпиской.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, userSelect+` WHERE u.email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID вместе с больницей, отделением и подпиской.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateLastLogin записывает время последнего входа.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// StagePlan запоминает выбранный администратором план. Повторный выбор
// заменяет предыдущий. Возвращает false, если пользователь не найден или
// больница для него уже создана.
func (s *Storage) StagePlan(ctx context.Context, userID, planID string) (bool, error) {
	const op = "storage.StagePlan"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET staged_plan_id = $1,
			      provisioning_status = 'PLAN_STAGED',
			      updated_at = NOW()
			  WHERE id = $2 AND hospital_id IS NULL`
	result, err := s.DB.ExecContext(ctx, query, planID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
