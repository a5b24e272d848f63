package handler

import (
	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/export"
	"nutrilens/internal/model"
	"nutrilens/internal/nutrition"
	"nutrilens/internal/service"
)

type mealResponse struct {
	Message string      `json:"message,omitempty"`
	Data    *model.Meal `json:"data"`
}

type portionBody struct {
	Portion *nutrition.PortionRequest `json:"portion"`
}

// AnalyzeMeal godoc
// @Summary Analyze a food photo
// @Description Uploads an image (multipart field "image"), estimates its nutrition and stores the result.
// @Tags meals
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "JPEG, PNG, GIF or WEBP image, at most 5MB"
// @Param quantity formData string false "Quantity hint, e.g. 2 slices"
// @Success 200 {object} mealResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/analyze [post]
func AnalyzeMeal(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return writeServiceError(c, service.ErrFileRequired)
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		meal, err := svc.Analyze(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Quantity:    c.FormValue("quantity"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mealResponse{Message: "Analysis successful", Data: meal})
	}
}

// ListHistory godoc
// @Summary List analyzed meals
// @Description Newest first. limit defaults to 20 and is capped; skip defaults to 0.
// @Tags meals
// @Produce json
// @Param limit query int false "Page size"
// @Param skip query int false "Records to skip"
// @Success 200 {object} service.HistoryPage
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/history [get]
func ListHistory(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, skip := service.ParsePage(c.Query("limit"), c.Query("skip"))
		page, err := svc.History(c.UserContext(), limit, skip)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(page)
	}
}

// GetMeal godoc
// @Summary Get one meal
// @Tags meals
// @Produce json
// @Param id path string true "Meal ID"
// @Success 200 {object} mealResponse
// @Failure 404 {object} errorPayload
// @Router /api/history/{id} [get]
func GetMeal(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meal, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mealResponse{Data: meal})
	}
}

// ExportMeal godoc
// @Summary Download a meal report
// @Tags meals
// @Produce plain
// @Produce text/csv
// @Param id path string true "Meal ID"
// @Param format query string false "txt (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/history/{id}/export [get]
func ExportMeal(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			return writeServiceError(c, err)
		}
		file, err := svc.Export(c.UserContext(), c.Params("id"), format)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment(file.Name)
		c.Set(fiber.HeaderContentType, file.ContentType)
		return c.Send(file.Body)
	}
}

// ClearHistory godoc
// @Summary Delete every meal
// @Tags meals
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/history [delete]
func ClearHistory(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := svc.Clear(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "History cleared"})
	}
}

// AdjustPortion godoc
// @Summary Rescale a meal to a different portion
// @Description multiplier wins over grams; grams are relative to the previous gram estimate (250 if unknown).
// @Tags meals
// @Accept json
// @Produce json
// @Param id path string true "Meal ID"
// @Param body body portionBody true "Requested portion"
// @Success 200 {object} mealResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/history/{id}/portion [patch]
func AdjustPortion(svc service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body portionBody
		if err := parseJSON(c, &body); err != nil {
			return writeServiceError(c, err)
		}
		var req nutrition.PortionRequest
		if body.Portion != nil {
			req = *body.Portion
		}
		meal, err := svc.AdjustPortion(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mealResponse{Message: "Portion updated", Data: meal})
	}
}
