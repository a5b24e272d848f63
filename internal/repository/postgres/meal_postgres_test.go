package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

var mealColumnNames = []string{
	"id", "image_path", "food_name", "serving_size", "is_healthy", "calories",
	"macronutrients", "micronutrients", "nutrition_breakdown", "health_metrics",
	"analysis", "recommendation", "portion_estimate", "original_nutrition", "created_at",
}

func sampleMeal(now time.Time) *model.Meal {
	return model.NewMeal("meal-1", "1700000000000-deadbeef-apple.jpg", model.Estimate{
		FoodName:       "Apple",
		ServingSize:    "1 medium",
		IsHealthy:      true,
		Calories:       95,
		Macronutrients: model.Macronutrients{Protein: 0.5, Carbs: 25, Fat: 0.3, Fiber: 4.4, Sugar: 19},
		HealthMetrics:  model.HealthMetrics{HealthScore: 90, Benefits: []string{"Fiber"}},
	}, now)
}

func mealRow(rows *sqlmock.Rows, id string, now time.Time, portion any) *sqlmock.Rows {
	return rows.AddRow(
		id, "img.jpg", "Apple", "1 medium", true, 95.0,
		[]byte(`{"protein":0.5,"carbs":25,"fat":0.3,"fiber":4.4,"sugar":19}`),
		[]byte(`{"potassium":195}`),
		[]byte(`{"proteinPercent":2,"carbsPercent":95,"fatPercent":3}`),
		[]byte(`{"healthScore":90,"benefits":["Fiber"],"concerns":null}`),
		"Fresh fruit.", "Eat more.",
		portion,
		[]byte(`{"calories":95,"macronutrients":{"protein":0.5,"carbs":25,"fat":0.3,"fiber":4.4,"sugar":19}}`),
		now,
	)
}

func TestMealPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMealPostgres(db)
	now := time.Now().UTC()
	meal := sampleMeal(now)

	mock.ExpectQuery("INSERT INTO meals").
		WithArgs(
			meal.ID, meal.ImagePath, meal.FoodName, meal.ServingSize, meal.IsHealthy, meal.Calories,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			meal.Analysis, meal.Recommendation, nil, sqlmock.AnyArg(), meal.CreatedAt,
		).
		WillReturnRows(mealRow(sqlmock.NewRows(mealColumnNames), meal.ID, now, nil))

	got, err := repo.Create(context.Background(), meal)

	require.NoError(t, err)
	assert.Equal(t, "meal-1", got.ID)
	assert.Equal(t, 95.0, got.OriginalNutrition.Calories)
	assert.Equal(t, 195.0, got.Micronutrients.Potassium)
	assert.Equal(t, []string{}, got.HealthMetrics.Concerns)
	assert.Nil(t, got.PortionEstimate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMealPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMealPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found with portion", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM meals WHERE id = ?").
			WithArgs("meal-1").
			WillReturnRows(mealRow(sqlmock.NewRows(mealColumnNames), "meal-1", now,
				[]byte(`{"category":"large","grams":500,"multiplier":2,"confidence":0.8}`)))

		m, err := repo.FindByID(ctx, "meal-1")

		require.NoError(t, err)
		require.NotNil(t, m.PortionEstimate)
		assert.Equal(t, 2.0, m.PortionEstimate.Multiplier)
		assert.Equal(t, "large", m.PortionEstimate.Category)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM meals WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		m, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, m)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM meals WHERE id = ?").
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: pgInvalidTextFormat})

		_, err := repo.FindByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMealPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMealPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM meals").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows(mealColumnNames)
	mealRow(rows, "b", now, nil)
	mealRow(rows, "a", now.Add(-time.Minute), nil)
	mock.ExpectQuery("SELECT (.+) FROM meals ORDER BY created_at DESC, id DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(2, 0).
		WillReturnRows(rows)

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 2, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "b", res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMealPostgres_List_CountError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

	_, err = NewMealPostgres(db).List(context.Background(), repository.PageQuery{Limit: 20})
	assert.EqualError(t, err, "boom")
}

func TestMealPostgres_UpdateNutrition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMealPostgres(db)
	meal := sampleMeal(time.Now())
	meal.Calories = 190
	meal.PortionEstimate = &model.PortionEstimate{Multiplier: 2}

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE meals").
			WithArgs(meal.ID, 190.0, sqlmock.AnyArg(), `{"multiplier":2}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateNutrition(context.Background(), meal))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE meals").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateNutrition(context.Background(), meal), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMealPostgres_DeleteAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM meals").WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewMealPostgres(db).DeleteAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
