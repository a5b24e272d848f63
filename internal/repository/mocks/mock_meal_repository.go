package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	args := m.Called(ctx, meal)
	if f, ok := args.Get(0).(func(context.Context, *model.Meal) *model.Meal); ok {
		return f(ctx, meal), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Meal], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Meal]), args.Error(1)
}

func (m *MockMealRepository) UpdateNutrition(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
