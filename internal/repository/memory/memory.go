// Package memory holds the DEV_MOCK repositories. State lives on the
// repository value, never in package globals.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

// MealMemory is an in-process repository.MealRepository.
type MealMemory struct {
	mu    sync.RWMutex
	meals map[string]model.Meal
}

func NewMealMemory() *MealMemory {
	return &MealMemory{meals: make(map[string]model.Meal)}
}

var _ repository.MealRepository = (*MealMemory)(nil)

func (r *MealMemory) Create(_ context.Context, meal *model.Meal) (*model.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meals[meal.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	stored := cloneMeal(*meal)
	r.meals[meal.ID] = stored
	out := cloneMeal(stored)
	return &out, nil
}

func (r *MealMemory) FindByID(_ context.Context, id string) (*model.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.meals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneMeal(m)
	return &out, nil
}

func (r *MealMemory) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Meal], error) {
	r.mu.RLock()
	all := make([]model.Meal, 0, len(r.meals))
	for _, m := range r.meals {
		all = append(all, cloneMeal(m))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start := min(max(pq.Offset, 0), len(all))
	end := min(start+max(pq.Limit, 0), len(all))
	return &repository.PageResult[model.Meal]{Items: all[start:end], Total: len(all)}, nil
}

func (r *MealMemory) UpdateNutrition(_ context.Context, meal *model.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meals[meal.ID]
	if !ok {
		return repository.ErrNotFound
	}
	m.Calories = meal.Calories
	m.Macronutrients = meal.Macronutrients
	m.PortionEstimate = clonePortion(meal.PortionEstimate)
	r.meals[meal.ID] = m
	return nil
}

func (r *MealMemory) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.meals))
	r.meals = make(map[string]model.Meal)
	return n, nil
}

func cloneMeal(m model.Meal) model.Meal {
	m.HealthMetrics.Benefits = append([]string{}, m.HealthMetrics.Benefits...)
	m.HealthMetrics.Concerns = append([]string{}, m.HealthMetrics.Concerns...)
	m.PortionEstimate = clonePortion(m.PortionEstimate)
	return m
}

func clonePortion(p *model.PortionEstimate) *model.PortionEstimate {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// UserMemory is an in-process repository.UserRepository. Emails compare case-insensitively.
type UserMemory struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewUserMemory() *UserMemory {
	return &UserMemory{byID: make(map[string]model.User), byEmail: make(map[string]string)}
}

var _ repository.UserRepository = (*UserMemory)(nil)

func (r *UserMemory) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, repository.ErrDuplicate
	}
	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	out := *user
	return &out, nil
}

func (r *UserMemory) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserMemory) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}
