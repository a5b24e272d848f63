package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

// MealPostgres is a PostgreSQL implementation of repository.MealRepository.
// Nested nutrition groups are stored as JSONB columns.
type MealPostgres struct {
	db *sql.DB
}

// NewMealPostgres creates a new MealPostgres repository.
func NewMealPostgres(db *sql.DB) *MealPostgres {
	return &MealPostgres{db: db}
}

var _ repository.MealRepository = (*MealPostgres)(nil)

const mealColumns = `id, image_path, food_name, serving_size, is_healthy, calories,
		macronutrients, micronutrients, nutrition_breakdown, health_metrics,
		analysis, recommendation, portion_estimate, original_nutrition, created_at`

func scanMeal(s scanner) (*model.Meal, error) {
	var (
		m                                model.Meal
		macro, micro, breakdown, metrics []byte
		portion, original                []byte
	)
	if err := s.Scan(
		&m.ID,
		&m.ImagePath,
		&m.FoodName,
		&m.ServingSize,
		&m.IsHealthy,
		&m.Calories,
		&macro,
		&micro,
		&breakdown,
		&metrics,
		&m.Analysis,
		&m.Recommendation,
		&portion,
		&original,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"macronutrients", macro, &m.Macronutrients},
		{"micronutrients", micro, &m.Micronutrients},
		{"nutrition_breakdown", breakdown, &m.NutritionBreakdown},
		{"health_metrics", metrics, &m.HealthMetrics},
		{"original_nutrition", original, &m.OriginalNutrition},
	} {
		if err := unmarshalJSON(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	if len(portion) > 0 {
		m.PortionEstimate = &model.PortionEstimate{}
		if err := unmarshalJSON(portion, m.PortionEstimate); err != nil {
			return nil, fmt.Errorf("decode portion_estimate: %w", err)
		}
	}
	if m.HealthMetrics.Benefits == nil {
		m.HealthMetrics.Benefits = []string{}
	}
	if m.HealthMetrics.Concerns == nil {
		m.HealthMetrics.Concerns = []string{}
	}
	return &m, nil
}

func portionArg(p *model.PortionEstimate) (any, error) {
	if p == nil {
		return nil, nil
	}
	return jsonArg(p)
}

// Create inserts a new meal row and returns the stored record.
func (r *MealPostgres) Create(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	groups := make([]string, 0, 5)
	for _, v := range []any{meal.Macronutrients, meal.Micronutrients, meal.NutritionBreakdown, meal.HealthMetrics, meal.OriginalNutrition} {
		s, err := jsonArg(v)
		if err != nil {
			return nil, err
		}
		groups = append(groups, s)
	}
	portion, err := portionArg(meal.PortionEstimate)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO meals (` + mealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9::jsonb, $10::jsonb, $11, $12, $13::jsonb, $14::jsonb, $15)
		RETURNING ` + mealColumns
	row := r.db.QueryRowContext(ctx, q,
		meal.ID,
		meal.ImagePath,
		meal.FoodName,
		meal.ServingSize,
		meal.IsHealthy,
		meal.Calories,
		groups[0],
		groups[1],
		groups[2],
		groups[3],
		meal.Analysis,
		meal.Recommendation,
		portion,
		groups[4],
		meal.CreatedAt,
	)
	return scanMeal(row)
}

// FindByID fetches a single meal by its ID.
func (r *MealPostgres) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	q := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`
	m, err := scanMeal(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextFormat {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns meals using LIMIT/OFFSET pagination and a total count.
func (r *MealPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Meal], error) {
	const qCount = `SELECT COUNT(*) FROM meals`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT ` + mealColumns + `
		FROM meals
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Meal]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateNutrition rewrites the portion-dependent columns of an existing meal.
func (r *MealPostgres) UpdateNutrition(ctx context.Context, meal *model.Meal) error {
	macro, err := jsonArg(meal.Macronutrients)
	if err != nil {
		return err
	}
	portion, err := portionArg(meal.PortionEstimate)
	if err != nil {
		return err
	}

	const q = `
		UPDATE meals
		SET calories = $2, macronutrients = $3::jsonb, portion_estimate = $4::jsonb
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, meal.ID, meal.Calories, macro, portion)
	if err != nil {
		if pgCode(err) == pgInvalidTextFormat {
			return repository.ErrNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteAll removes every meal and reports how many rows were deleted.
func (r *MealPostgres) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
