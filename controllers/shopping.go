package controllers

import (
	"fmt"
	"net/http"
	"sort"

	"wardrobeapi/models"
	"wardrobeapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	defaultBudgetMin = 500
	defaultBudgetMax = 5000

	scoredProductWindow = 8
	recommendationLimit = 6
)

type ShoppingController struct {
	Shopping services.ShoppingProvider
}

func (controller *ShoppingController) ShoppingRoutes(g *echo.Group) {
	g.POST("/recommend", controller.Recommend)
}

// Recommend finds wardrobe gaps for the stated intent and returns scored live
// product matches, falling back to curated placeholders when search fails.
func (controller *ShoppingController) Recommend(c echo.Context) error {
	var req models.ShoppingIn
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

	var wardrobe []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Find(&wardrobe).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe items"})
	}

	budgetMin := defaultBudgetMin
	if req.BudgetMin != nil && *req.BudgetMin > 0 {
		budgetMin = *req.BudgetMin
	}
	budgetMax := defaultBudgetMax
	if req.BudgetMax != nil && *req.BudgetMax > 0 {
		budgetMax = *req.BudgetMax
	}
	stylePreference := "Casual"
	if req.StylePreference != nil && *req.StylePreference != "" {
		stylePreference = *req.StylePreference
	}
	sustainability := "Normal"
	if req.Sustainability != nil && *req.Sustainability != "" {
		sustainability = *req.Sustainability
	}

	gaps := services.DetectWardrobeGaps(wardrobe, req.Intent)
	query := services.BuildShoppingQuery(req.Intent, req.ColorPreference, sustainability)

	products, err := controller.Shopping.SearchProducts(c.Request().Context(), query, budgetMin, budgetMax)
	if err != nil || len(products) == 0 {
		if err != nil {
			fmt.Printf("[User %v] Product search failed: %v\n", user.ID, err)
			sentry.CaptureException(err)
		}
		products = services.FallbackProducts(query, budgetMin, budgetMax)
	}

	if len(products) > scoredProductWindow {
		products = products[:scoredProductWindow]
	}
	scored := make([]models.ScoredProduct, 0, len(products))
	for _, product := range products {
		scored = append(scored, services.ScoreProductMatch(product, wardrobe, stylePreference, req.ColorPreference))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if len(scored) > recommendationLimit {
		scored = scored[:recommendationLimit]
	}

	bodyShape := user.BodyShape
	if bodyShape == "" {
		bodyShape = "Rectangle"
	}

	return c.JSON(http.StatusOK, models.ShoppingOut{
		Gaps:            gaps,
		Recommendations: scored,
		UserContext: models.ShoppingUserContext{
			Size:      "M",
			BodyShape: bodyShape,
			Style:     stylePreference,
			Budget:    fmt.Sprintf("₹%d - ₹%d", budgetMin, budgetMax),
		},
	})
}
