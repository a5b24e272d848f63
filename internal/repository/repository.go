// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, mongo, memory) inside this directory.
package repository

import (
	"context"
	"errors"

	"nutrilens/internal/model"
)

var (
	// ErrNotFound is returned when a lookup by key matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("record already exists")
)

// PageQuery describes offset pagination.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult holds one page of items plus the unpaginated total.
type PageResult[T any] struct {
	Items []T
	Total int
}

// MealRepository persists analyzed meals.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) (*model.Meal, error)
	FindByID(ctx context.Context, id string) (*model.Meal, error)
	// List orders by createdAt descending, ties broken by id descending.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Meal], error)
	// UpdateNutrition writes calories, macronutrients and portionEstimate of meal.
	UpdateNutrition(ctx context.Context, meal *model.Meal) error
	DeleteAll(ctx context.Context) (int64, error)
}

// UserRepository persists accounts. Emails are unique.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}
