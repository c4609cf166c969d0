package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

// ProvisionResult — результат транзакции подключения больницы.
type ProvisionResult struct {
	Hospital     *models.Hospital
	Subscription *models.Subscription
	Admin        *models.User
}

// RegisterParams — данные для регистрации больницы вместе с администратором.
type RegisterParams struct {
	Hospital  models.HospitalInput
	Admin     models.User
	PlanID    string
	StartDate time.Time
	EndDate   time.Time
}

func ensurePlanActive(ctx context.Context, q querier, planID string) error {
	var status string
	err := q.QueryRowContext(ctx, `SELECT status FROM subscription_plans WHERE id = $1`, planID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && status != string(models.PlanActive)) {
		return ErrPlanUnavailable
	}
	return err
}

// ProvisionHospital создаёт больницу и подписку по выбранному администратором
// плану и привязывает администратора к больнице. Строка администратора
// блокируется до конца транзакции, поэтому из двух одновременных вызовов
// успешен только один, второй получает ErrAlreadyProvisioned.
func (s *Storage) ProvisionHospital(ctx context.Context, adminID string, in models.HospitalInput,
	start, end time.Time) (*ProvisionResult, error) {
	const op = "storage.ProvisionHospital"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result ProvisionResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var hospitalID, stagedPlanID sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT hospital_id, staged_plan_id FROM users WHERE id = $1 FOR UPDATE`, adminID,
		).Scan(&hospitalID, &stagedPlanID)
		if err != nil {
			return err
		}
		if hospitalID.Valid {
			return ErrAlreadyProvisioned
		}
		if !stagedPlanID.Valid {
			return ErrPlanNotStaged
		}
		if err = ensurePlanActive(ctx, tx, stagedPlanID.String); err != nil {
			return err
		}

		hospital, err := insertHospital(ctx, tx, in)
		if err != nil {
			return err
		}
		sub, err := insertSubscription(ctx, tx, hospital.ID, stagedPlanID.String, start, end)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE users
			SET hospital_id = $1,
			    provisioning_status = 'PROVISIONED',
			    staged_plan_id = NULL,
			    updated_at = NOW()
			WHERE id = $2`, hospital.ID, adminID)
		if err != nil {
			return err
		}

		result.Hospital = hospital
		result.Subscription = sub
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RegisterHospital в одной транзакции создаёт больницу, подписку и
// уже подключённого администратора.
func (s *Storage) RegisterHospital(ctx context.Context, params RegisterParams) (*ProvisionResult, error) {
	const op = "storage.RegisterHospital"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result ProvisionResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensurePlanActive(ctx, tx, params.PlanID); err != nil {
			return err
		}

		hospital, err := insertHospital(ctx, tx, params.Hospital)
		if err != nil {
			return err
		}
		sub, err := insertSubscription(ctx, tx, hospital.ID, params.PlanID, params.StartDate, params.EndDate)
		if err != nil {
			return err
		}

		admin := params.Admin
		admin.Role = models.RoleAdmin
		admin.HospitalID = &hospital.ID
		admin.ProvisioningStatus = models.ProvisioningProvisioned
		admin.StagedPlanID = nil
		err = tx.QueryRowContext(ctx, `INSERT INTO users (name, email, phone, password_hash, role,
				hospital_id, provisioning_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, is_active, created_at, updated_at`,
			admin.Name, admin.Email, admin.Phone, admin.PasswordHash, admin.Role,
			hospital.ID, admin.ProvisioningStatus,
		).Scan(&admin.ID, &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt)
		if err != nil {
			return err
		}

		result.Hospital = hospital
		result.Subscription = sub
		result.Admin = &admin
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
