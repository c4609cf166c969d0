package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adarsh1278/HSass-backend/internal/models"
)

// PlanOrder задаёт порядок выдачи списка планов.
type PlanOrder int

const (
	// PlanOrderPrice — по возрастанию цены.
	PlanOrderPrice PlanOrder = iota
	// PlanOrderNewest — сначала созданные последними.
	PlanOrderNewest
)

func (o PlanOrder) clause() string {
	if o == PlanOrderNewest {
		return "created_at DESC"
	}
	return "price ASC"
}

const planColumns = `id, name, description, price, currency, billing_cycle, max_users,
	max_patients, features, status, created_at, updated_at`

func scanPlan(row scanner) (*models.Plan, error) {
	var (
		p           models.Plan
		description sql.NullString
		features    []byte
		status      string
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Currency, &p.BillingCycle,
		&p.MaxUsers, &p.MaxPatients, &features, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = nullString(description)
	p.Features = features
	p.Status = models.PlanStatus(status)
	return &p, nil
}

func featuresParam(features []byte) string {
	if len(features) == 0 {
		return "{}"
	}
	return string(features)
}

// CreatePlan сохраняет новый план подписки.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_plans (name, description, price, currency, billing_cycle,
			      max_users, max_patients, features, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
			  RETURNING ` + planColumns
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.Price, plan.Currency, plan.BillingCycle,
		plan.MaxUsers, plan.MaxPatients, featuresParam(plan.Features), plan.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// EnsurePlan создаёт план, если плана с таким именем нет. Существующий план не изменяется.
func (s *Storage) EnsurePlan(ctx context.Context, plan models.Plan) (*models.Plan, error) {
	const op = "storage.EnsurePlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_plans (name, description, price, currency, billing_cycle,
			      max_users, max_patients, features, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
			  ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			  RETURNING ` + planColumns
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.Price, plan.Currency, plan.BillingCycle,
		plan.MaxUsers, plan.MaxPatients, featuresParam(plan.Features), plan.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetPlan возвращает план по ID независимо от статуса.
func (s *Storage) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE id = $1`
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListActivePlans возвращает активные планы в заданном порядке.
func (s *Storage) ListActivePlans(ctx context.Context, order PlanOrder) ([]models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + planColumns + ` FROM subscription_plans
			  WHERE status = 'ACTIVE'
			  ORDER BY ` + order.clause()
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePlan изменяет только заданные поля плана. Пустое изменение
// возвращает план без записи в базу.
func (s *Storage) UpdatePlan(ctx context.Context, id string, upd models.PlanUpdate) (*models.Plan, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if upd.Empty() {
		p, err := s.GetPlan(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return p, nil
	}

	set := newSetBuilder()
	set.add("name", upd.Name)
	set.add("description", upd.Description)
	set.add("price", upd.Price)
	set.add("currency", upd.Currency)
	set.add("billing_cycle", upd.BillingCycle)
	set.add("max_users", upd.MaxUsers)
	set.add("max_patients", upd.MaxPatients)
	if len(upd.Features) > 0 {
		set.addCast("features", string(upd.Features), "jsonb")
	}
	set.add("status", upd.Status)

	query, args := set.build("subscription_plans", id, planColumns)
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetPlanStatus меняет статус плана.
func (s *Storage) SetPlanStatus(ctx context.Context, id string, status models.PlanStatus) (*models.Plan, error) {
	const op = "storage.SetPlanStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscription_plans SET status = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + planColumns
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CountActivePlans возвращает количество активных планов.
func (s *Storage) CountActivePlans(ctx context.Context) (int, error) {
	const op = "storage.CountActivePlans"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var n int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscription_plans WHERE status = 'ACTIVE'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// setBuilder собирает UPDATE из фиксированного набора колонок.
// Имена колонок задаются только в коде, значения передаются параметрами.
type setBuilder struct {
	parts []string
	args  []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

// add добавляет колонку, если указатель не nil.
func (b *setBuilder) add(column string, value any) {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return
		}
		b.push(column, *v, "")
	case *float64:
		if v == nil {
			return
		}
		b.push(column, *v, "")
	case *int:
		if v == nil {
			return
		}
		b.push(column, *v, "")
	case *models.PlanStatus:
		if v == nil {
			return
		}
		b.push(column, string(*v), "")
	}
}

func (b *setBuilder) addCast(column string, value any, cast string) {
	b.push(column, value, cast)
}

func (b *setBuilder) push(column string, value any, cast string) {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", len(b.args))
	if cast != "" {
		placeholder += "::" + cast
	}
	b.parts = append(b.parts, column+" = "+placeholder)
}

func (b *setBuilder) build(table, id, returning string) (string, []any) {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		table, strings.Join(b.parts, ", "), len(args), returning)
	return query, args
}
