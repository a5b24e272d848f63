// Package mongo implements the repositories on MongoDB. IDs are UUID strings
// stored in _id so records look the same across stores.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nutrilens/internal/database"
	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

// Nested documents mirror the model structs with camelCase field names;
// the driver would otherwise lowercase them.
type macrosDoc struct {
	Protein float64 `bson:"protein"`
	Carbs   float64 `bson:"carbs"`
	Fat     float64 `bson:"fat"`
	Fiber   float64 `bson:"fiber"`
	Sugar   float64 `bson:"sugar"`
}

type microsDoc struct {
	Sodium      float64 `bson:"sodium"`
	Cholesterol float64 `bson:"cholesterol"`
	VitaminA    float64 `bson:"vitaminA"`
	VitaminC    float64 `bson:"vitaminC"`
	Calcium     float64 `bson:"calcium"`
	Iron        float64 `bson:"iron"`
	Potassium   float64 `bson:"potassium"`
	Magnesium   float64 `bson:"magnesium"`
	Zinc        float64 `bson:"zinc"`
	VitaminD    float64 `bson:"vitaminD"`
	VitaminB12  float64 `bson:"vitaminB12"`
}

type breakdownDoc struct {
	ProteinPercent float64 `bson:"proteinPercent"`
	CarbsPercent   float64 `bson:"carbsPercent"`
	FatPercent     float64 `bson:"fatPercent"`
}

type healthDoc struct {
	HealthScore float64  `bson:"healthScore"`
	Benefits    []string `bson:"benefits"`
	Concerns    []string `bson:"concerns"`
}

type portionDoc struct {
	Category   string  `bson:"category,omitempty"`
	Grams      float64 `bson:"grams,omitempty"`
	Multiplier float64 `bson:"multiplier"`
	Confidence float64 `bson:"confidence,omitempty"`
}

type originalDoc struct {
	Calories       float64   `bson:"calories"`
	Macronutrients macrosDoc `bson:"macronutrients"`
}

type mealDoc struct {
	ID                 string       `bson:"_id"`
	ImagePath          string       `bson:"imagePath"`
	FoodName           string       `bson:"foodName"`
	ServingSize        string       `bson:"servingSize"`
	IsHealthy          bool         `bson:"isHealthy"`
	Calories           float64      `bson:"calories"`
	Macronutrients     macrosDoc    `bson:"macronutrients"`
	Micronutrients     microsDoc    `bson:"micronutrients"`
	NutritionBreakdown breakdownDoc `bson:"nutritionBreakdown"`
	HealthMetrics      healthDoc    `bson:"healthMetrics"`
	Analysis           string       `bson:"analysis"`
	Recommendation     string       `bson:"recommendation"`
	PortionEstimate    *portionDoc  `bson:"portionEstimate,omitempty"`
	OriginalNutrition  originalDoc  `bson:"originalNutrition"`
	CreatedAt          time.Time    `bson:"createdAt"`
}

func toPortionDoc(p *model.PortionEstimate) *portionDoc {
	if p == nil {
		return nil
	}
	d := portionDoc(*p)
	return &d
}

func (d *portionDoc) toModel() *model.PortionEstimate {
	if d == nil {
		return nil
	}
	p := model.PortionEstimate(*d)
	return &p
}

func toMealDoc(m *model.Meal) mealDoc {
	return mealDoc{
		ID:                 m.ID,
		ImagePath:          m.ImagePath,
		FoodName:           m.FoodName,
		ServingSize:        m.ServingSize,
		IsHealthy:          m.IsHealthy,
		Calories:           m.Calories,
		Macronutrients:     macrosDoc(m.Macronutrients),
		Micronutrients:     microsDoc(m.Micronutrients),
		NutritionBreakdown: breakdownDoc(m.NutritionBreakdown),
		HealthMetrics:      healthDoc(m.HealthMetrics),
		Analysis:           m.Analysis,
		Recommendation:     m.Recommendation,
		PortionEstimate:    toPortionDoc(m.PortionEstimate),
		OriginalNutrition: originalDoc{
			Calories:       m.OriginalNutrition.Calories,
			Macronutrients: macrosDoc(m.OriginalNutrition.Macronutrients),
		},
		CreatedAt: m.CreatedAt,
	}
}

func (d mealDoc) toModel() model.Meal {
	m := model.Meal{
		ID:        d.ID,
		ImagePath: d.ImagePath,
		Estimate: model.Estimate{
			FoodName:           d.FoodName,
			ServingSize:        d.ServingSize,
			IsHealthy:          d.IsHealthy,
			Calories:           d.Calories,
			Macronutrients:     model.Macronutrients(d.Macronutrients),
			Micronutrients:     model.Micronutrients(d.Micronutrients),
			NutritionBreakdown: model.NutritionBreakdown(d.NutritionBreakdown),
			HealthMetrics:      model.HealthMetrics(d.HealthMetrics),
			Analysis:           d.Analysis,
			Recommendation:     d.Recommendation,
			PortionEstimate:    d.PortionEstimate.toModel(),
		},
		OriginalNutrition: model.OriginalNutrition{
			Calories:       d.OriginalNutrition.Calories,
			Macronutrients: model.Macronutrients(d.OriginalNutrition.Macronutrients),
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
	if m.HealthMetrics.Benefits == nil {
		m.HealthMetrics.Benefits = []string{}
	}
	if m.HealthMetrics.Concerns == nil {
		m.HealthMetrics.Concerns = []string{}
	}
	return m
}

// MealMongo is a MongoDB implementation of repository.MealRepository.
type MealMongo struct {
	coll *mongo.Collection
}

// NewMealMongo creates a MealMongo bound to the meals collection of db.
func NewMealMongo(db *mongo.Database) *MealMongo {
	return &MealMongo{coll: db.Collection(database.MealsCollection)}
}

var _ repository.MealRepository = (*MealMongo)(nil)

func (r *MealMongo) Create(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	doc := toMealDoc(meal)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	out := doc.toModel()
	return &out, nil
}

func (r *MealMongo) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	var doc mealDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	out := doc.toModel()
	return &out, nil
}

func (r *MealMongo) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Meal], error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(pq.Offset)).
		SetLimit(int64(pq.Limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]model.Meal, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toModel())
	}
	return &repository.PageResult[model.Meal]{Items: items, Total: int(total)}, nil
}

func (r *MealMongo) UpdateNutrition(ctx context.Context, meal *model.Meal) error {
	set := bson.M{
		"calories":       meal.Calories,
		"macronutrients": macrosDoc(meal.Macronutrients),
	}
	update := bson.M{"$set": set}
	if meal.PortionEstimate != nil {
		set["portionEstimate"] = toPortionDoc(meal.PortionEstimate)
	} else {
		update["$unset"] = bson.M{"portionEstimate": ""}
	}

	res, err := r.coll.UpdateByID(ctx, meal.ID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MealMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
