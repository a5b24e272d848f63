package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nutrilens/internal/export"
	"nutrilens/internal/model"
	"nutrilens/internal/nutrition"
	"nutrilens/internal/service"
)

type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) Analyze(ctx context.Context, in service.UploadInput) (*model.Meal, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) History(ctx context.Context, limit, skip int) (*service.HistoryPage, error) {
	args := m.Called(ctx, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HistoryPage), args.Error(1)
}

func (m *MockMealService) Get(ctx context.Context, id string) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) AdjustPortion(ctx context.Context, id string, req nutrition.PortionRequest) (*model.Meal, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMealService) Export(ctx context.Context, id string, format export.Format) (*service.ExportFile, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}
