package services

import (
	"testing"

	"wardrobeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShoppingQuery(t *testing.T) {
	color := "olive"
	assert.Equal(t, "olive formal shirt", BuildShoppingQuery("formal shirt", &color, "Normal"))
	assert.Equal(t, "sustainable eco-friendly formal shirt", BuildShoppingQuery("formal shirt", &color, "Eco-only"))
	assert.Equal(t, "formal shirt", BuildShoppingQuery("formal shirt", nil, "Normal"))
}

func TestDetectWardrobeGapsFormal(t *testing.T) {
	wardrobe := []models.WardrobeItem{
		{SubCategory: "shirt"},
		{SubCategory: "trousers"},
	}

	gaps := DetectWardrobeGaps(wardrobe, "formal office wear")

	require.Len(t, gaps, 2)
	assert.Contains(t, gaps[0], "formal shoes")
	assert.Contains(t, gaps[1], "blazer")
}

func TestDetectWardrobeGapsWinter(t *testing.T) {
	gaps := DetectWardrobeGaps([]models.WardrobeItem{{SubCategory: "jacket"}}, "winter coat")

	require.Len(t, gaps, 1)
	assert.Contains(t, gaps[0], "well-rounded")
}

func TestDetectWardrobeGapsDefault(t *testing.T) {
	gaps := DetectWardrobeGaps(nil, "summer dress")

	require.Len(t, gaps, 1)
	assert.Contains(t, gaps[0], "well-rounded")
}

func TestScoreProductMatchBaseline(t *testing.T) {
	product := models.ShoppingProduct{Name: "Plain Tee", Rating: "3.9"}

	scored := ScoreProductMatch(product, nil, "", nil)

	assert.Equal(t, 70, scored.MatchScore)
	assert.Equal(t, "Good option", scored.Recommendation)
	assert.Equal(t, []string{"Good quality product"}, scored.MatchReasons)
}

func TestScoreProductMatchStacksBonuses(t *testing.T) {
	color := "navy"
	wardrobe := []models.WardrobeItem{{Color: "navy"}}
	product := models.ShoppingProduct{Name: "Navy Casual Eco Shirt", Rating: "4.7", IsEco: true}

	scored := ScoreProductMatch(product, wardrobe, "casual", &color)

	// 70 + 15 color + 10 wardrobe + 10 style + 15 eco + 5 rating, capped at 100
	assert.Equal(t, 100, scored.MatchScore)
	assert.Equal(t, "Recommended", scored.Recommendation)
	assert.Len(t, scored.MatchReasons, 3)
}

func TestFallbackProducts(t *testing.T) {
	products := FallbackProducts("linen shirt", 500, 5000)

	require.Len(t, products, 2)
	assert.Equal(t, "Myntra", products[0].Store)
	assert.Equal(t, 2750, products[0].PriceNumeric)
	assert.Equal(t, "Amazon", products[1].Store)
	assert.Equal(t, 3300, products[1].PriceNumeric)
	assert.Equal(t, "4.5", products[1].Rating)
}
