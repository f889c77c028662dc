package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OutfitController struct {
	Outfits *services.OutfitService
	Weather services.WeatherProvider
}

func (controller *OutfitController) OutfitRoutes(g *echo.Group) {
	g.POST("/suggest", controller.Suggest)
	g.POST("/suggest-structured", controller.SuggestStructured)
	g.POST("/prompt", controller.PromptOutfit)
}

// resolveWeather picks explicit request weather first, then a live reading by
// coordinates or profile city, and finally the seasonal defaults.
func (controller *OutfitController) resolveWeather(c echo.Context, req models.OutfitSuggestIn, user models.UserAccount) models.WeatherIn {
	if req.Weather != nil {
		return *req.Weather
	}
	if controller.Weather != nil {
		if req.Latitude != nil && req.Longitude != nil {
			if live, err := controller.Weather.CurrentByCoords(c.Request().Context(), *req.Latitude, *req.Longitude); err == nil && live != nil {
				return *live
			} else {
				fmt.Printf("[User %v] Weather lookup by coords failed: %v\n", user.ID, err)
			}
		}
		if user.Location != "" {
			if live, err := controller.Weather.CurrentByCity(c.Request().Context(), user.Location); err == nil && live != nil {
				return *live
			} else {
				fmt.Printf("[User %v] Weather lookup for %q failed: %v\n", user.ID, user.Location, err)
			}
		}
	}
	return services.DefaultWeather()
}

func fetchClosetItems(db *gorm.DB, userID uint) ([]models.WardrobeItem, error) {
	var items []models.WardrobeItem
	err := db.Where("owner_id = ? AND status = ?", userID, "in_closet").Find(&items).Error
	return items, err
}

func (controller *OutfitController) recordSuggestionRun(db *gorm.DB, userID uint, occasion, mode string, responseText string, fallback bool, duration float64, llmResponse *services.LLMResponse) {
	run := models.OutfitSuggestionRun{
		UserAccountID: userID,
		Occasion:      occasion,
		Mode:          mode,
		ResponseText:  &responseText,
		Fallback:      fallback,
		Status:        "completed",
		Duration:      &duration,
	}
	if llmResponse != nil {
		modelString := controller.Outfits.Model.String()
		run.LLMModel = &modelString
		run.LLMInputTokenCount = &llmResponse.InputTokenCount
		run.LLMOutputTokenCount = &llmResponse.OutputTokenCount
		run.LLMTotalTokenCount = &llmResponse.TotalTokenCount
		run.LLMThoughtsTokenCount = &llmResponse.ThoughtsTokenCount
	}
	if err := db.Create(&run).Error; err != nil {
		sentry.CaptureException(err)
	}
}

func (controller *OutfitController) Suggest(c echo.Context) error {
	var req models.OutfitSuggestIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	items, err := fetchClosetItems(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe items"})
	}

	avoidDays := req.AvoidDays
	if avoidDays <= 0 {
		avoidDays = services.DefaultAvoidDays
	}
	weather := controller.resolveWeather(c, req, user)

	start := time.Now()
	suggestions, fallback, llmResponse, err := controller.Outfits.SuggestNarrative(user, items, req.Occasion, req.EventDetails, avoidDays, weather)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientWardrobe) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please add at least 3 items to your wardrobe before requesting suggestions"})
		}
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfit suggestions"})
	}
	controller.recordSuggestionRun(db, user.ID, req.Occasion, "narrative", suggestions, fallback, time.Since(start).Seconds(), llmResponse)

	return c.JSON(http.StatusOK, models.OutfitSuggestOut{
		Suggestions: suggestions,
		Weather:     weather,
		Fallback:    fallback,
	})
}

func (controller *OutfitController) SuggestStructured(c echo.Context) error {
	var req models.OutfitSuggestIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	items, err := fetchClosetItems(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe items"})
	}

	avoidDays := req.AvoidDays
	if avoidDays <= 0 {
		avoidDays = services.DefaultAvoidDays
	}
	weather := controller.resolveWeather(c, req, user)

	start := time.Now()
	outfits, fallback, llmResponse, err := controller.Outfits.SuggestStructured(user, items, req.Occasion, avoidDays, weather)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientWardrobe) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please add at least 3 items to your wardrobe before requesting suggestions"})
		}
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfit suggestions"})
	}
	controller.recordSuggestionRun(db, user.ID, req.Occasion, "structured", fmt.Sprintf("%d outfits", len(outfits)), fallback, time.Since(start).Seconds(), llmResponse)

	return c.JSON(http.StatusOK, models.StructuredSuggestOut{
		Outfits:  outfits,
		Weather:  weather,
		Fallback: fallback,
	})
}

func (controller *OutfitController) PromptOutfit(c echo.Context) error {
	var req models.PromptOutfitIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	items, err := fetchClosetItems(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe items"})
	}

	start := time.Now()
	result, fallback, llmResponse, err := controller.Outfits.PromptOutfit(user, items, req.Prompt)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientWardrobe) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please add at least 3 items to your wardrobe before requesting suggestions"})
		}
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfit suggestions"})
	}
	controller.recordSuggestionRun(db, user.ID, req.Prompt, "prompt", result.OutfitDescription, fallback, time.Since(start).Seconds(), llmResponse)

	return c.JSON(http.StatusOK, result)
}
