package repository

import (
	"context"
	"fmt"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

const superAdminColumns = `id, name, email, password_hash, is_active, created_at`

func scanSuperAdmin(row scanner) (*models.SuperAdmin, error) {
	var a models.SuperAdmin
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetSuperAdminByEmail возвращает супер-администратора по email.
func (s *Storage) GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	const op = "storage.GetSuperAdminByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + superAdminColumns + ` FROM super_admins WHERE email = $1`
	a, err := scanSuperAdmin(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetSuperAdminByID возвращает супер-администратора по ID.
func (s *Storage) GetSuperAdminByID(ctx context.Context, id string) (*models.SuperAdmin, error) {
	const op = "storage.GetSuperAdminByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + superAdminColumns + ` FROM super_admins WHERE id = $1`
	a, err := scanSuperAdmin(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// EnsureSuperAdmin создаёт супер-администратора, если записи с таким email нет.
// Существующая запись не изменяется.
func (s *Storage) EnsureSuperAdmin(ctx context.Context, name, email, passwordHash string) (*models.SuperAdmin, error) {
	const op = "storage.EnsureSuperAdmin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO super_admins (name, email, password_hash)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
			  RETURNING ` + superAdminColumns
	a, err := scanSuperAdmin(s.DB.QueryRowContext(ctx, query, name, email, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
