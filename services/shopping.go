package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"wardrobeapi/models"
)

// ShoppingProvider searches the product catalog for a shopping intent. A nil
// or failed search always degrades to fallback products, never to an error
// the handler has to surface.
type ShoppingProvider interface {
	SearchProducts(ctx context.Context, query string, budgetMin, budgetMax int) ([]models.ShoppingProduct, error)
}

// SerpShoppingService backs the shopping assistant with the Google Shopping
// engine on serpapi.com.
type SerpShoppingService struct {
	Client *http.Client
}

func NewSerpShoppingService() *SerpShoppingService {
	return &SerpShoppingService{
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

const serpAPIBaseURL = "https://serpapi.com/search"
const fallbackProductImage = "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300"

type serpShoppingResult struct {
	ShoppingResults []struct {
		Title          string      `json:"title"`
		Price          string      `json:"price"`
		ExtractedPrice float64     `json:"extracted_price"`
		Source         string      `json:"source"`
		Link           string      `json:"link"`
		Thumbnail      string      `json:"thumbnail"`
		Rating         json.Number `json:"rating"`
	} `json:"shopping_results"`
}

func (s *SerpShoppingService) SearchProducts(ctx context.Context, query string, budgetMin, budgetMax int) ([]models.ShoppingProduct, error) {
	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("shopping API key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("tbm", "shop")
	params.Set("gl", "in")
	params.Set("hl", "en")
	params.Set("api_key", apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", serpAPIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopping API error: %d", resp.StatusCode)
	}

	var data serpShoppingResult
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode shopping response: %v", err)
	}

	var products []models.ShoppingProduct
	results := data.ShoppingResults
	if len(results) > 20 {
		results = results[:20]
	}
	for _, prod := range results {
		price := int(prod.ExtractedPrice)
		if price == 0 {
			cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(prod.Price, "₹", ""), ",", ""))
			if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
				price = int(parsed)
			}
		}
		if price < budgetMin || price > budgetMax {
			continue
		}

		title := prod.Title
		if len(title) > 80 {
			title = title[:80]
		}
		rating := prod.Rating.String()
		if rating == "" {
			rating = "4.0"
		}
		thumbnail := prod.Thumbnail
		if thumbnail == "" {
			thumbnail = fallbackProductImage
		}
		link := prod.Link
		if link == "" {
			link = "#"
		}
		source := prod.Source
		if source == "" {
			source = "Online Store"
		}
		lowered := strings.ToLower(prod.Title)
		products = append(products, models.ShoppingProduct{
			Name:         title,
			Brand:        source,
			Price:        fmt.Sprintf("₹%d", price),
			PriceNumeric: price,
			Image:        thumbnail,
			Url:          link,
			Rating:       rating,
			Store:        source,
			IsEco:        strings.Contains(lowered, "eco") || strings.Contains(lowered, "sustainable"),
		})
	}
	return products, nil
}

// FallbackProducts is returned when the catalog search is unavailable or came
// back empty.
func FallbackProducts(query string, budgetMin, budgetMax int) []models.ShoppingProduct {
	midPrice := (budgetMin + budgetMax) / 2
	titled := TitleItemName(query)
	return []models.ShoppingProduct{
		{
			Name:         fmt.Sprintf("%s - Classic Style", titled),
			Brand:        "Myntra",
			Price:        fmt.Sprintf("₹%d", midPrice),
			PriceNumeric: midPrice,
			Image:        fallbackProductImage,
			Url:          "https://www.myntra.com/search?q=" + url.QueryEscape(query),
			Rating:       "4.2",
			Store:        "Myntra",
			IsEco:        false,
		},
		{
			Name:         fmt.Sprintf("%s - Premium", titled),
			Brand:        "Amazon",
			Price:        fmt.Sprintf("₹%d", midPrice*12/10),
			PriceNumeric: midPrice * 12 / 10,
			Image:        fallbackProductImage,
			Url:          "https://www.amazon.in/s?k=" + url.QueryEscape(query),
			Rating:       "4.5",
			Store:        "Amazon",
			IsEco:        false,
		},
	}
}

// BuildShoppingQuery applies the color and sustainability modifiers to the
// raw intent.
func BuildShoppingQuery(intent string, colorPreference *string, sustainability string) string {
	query := intent
	if colorPreference != nil && *colorPreference != "" {
		query = fmt.Sprintf("%s %s", *colorPreference, intent)
	}
	if sustainability == "Eco-only" {
		query = fmt.Sprintf("sustainable eco-friendly %s", intent)
	}
	return query
}

// DetectWardrobeGaps inspects the owned item types against the shopping
// intent and names what is missing.
func DetectWardrobeGaps(wardrobe []models.WardrobeItem, intent string) []string {
	var gaps []string

	itemCounts := map[string]int{}
	for _, item := range wardrobe {
		itemType := strings.ToLower(item.SubCategory)
		if itemType == "" {
			itemType = "unknown"
		}
		itemCounts[itemType]++
	}

	intentLower := strings.ToLower(intent)

	if strings.Contains(intentLower, "formal") || strings.Contains(intentLower, "office") {
		if itemCounts["formal shoes"] == 0 {
			gaps = append(gaps, "You have formal wear but no matching formal shoes.")
		}
		if itemCounts["blazer"] == 0 {
			gaps = append(gaps, "Consider adding a blazer to complete your office wardrobe.")
		}
	}

	if strings.Contains(intentLower, "winter") || strings.Contains(intentLower, "coat") {
		if itemCounts["jacket"] == 0 && itemCounts["coat"] == 0 {
			gaps = append(gaps, "You are missing warm outerwear for winter.")
		}
	}

	if strings.Contains(intentLower, "accessories") {
		if itemCounts["bag"] == 0 {
			gaps = append(gaps, "Your wardrobe lacks professional bags or accessories.")
		}
	}

	if len(gaps) == 0 {
		gaps = append(gaps, "Your wardrobe is well-rounded! These items will add variety.")
	}
	return gaps
}

// ScoreProductMatch rates a product against the wardrobe and the user's
// preferences. Base score 70, capped at 100.
func ScoreProductMatch(product models.ShoppingProduct, wardrobe []models.WardrobeItem, stylePreference string, colorPreference *string) models.ScoredProduct {
	score := 70
	var reasons []string
	nameLower := strings.ToLower(product.Name)

	if colorPreference != nil && *colorPreference != "" {
		if strings.Contains(nameLower, strings.ToLower(*colorPreference)) {
			score += 15
			reasons = append(reasons, fmt.Sprintf("Matches your %s preference", *colorPreference))
		}
	}

	var wardrobeColors []string
	for _, item := range wardrobe {
		if item.Color != "" {
			wardrobeColors = append(wardrobeColors, item.Color)
		}
	}
	if len(wardrobeColors) > 5 {
		wardrobeColors = wardrobeColors[:5]
	}
	for _, color := range wardrobeColors {
		if strings.Contains(nameLower, strings.ToLower(color)) {
			score += 10
			reasons = append(reasons, "Complements your wardrobe")
			break
		}
	}

	if stylePreference != "" && strings.Contains(nameLower, strings.ToLower(stylePreference)) {
		score += 10
		reasons = append(reasons, fmt.Sprintf("Fits your %s style", stylePreference))
	}

	if product.IsEco {
		score += 15
		reasons = append(reasons, "Eco-friendly option")
	}

	if rating, err := strconv.ParseFloat(product.Rating, 64); err == nil && rating >= 4.5 {
		score += 5
		reasons = append(reasons, "Highly rated")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Good quality product")
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	recommendation := "Good option"
	if score >= 75 {
		recommendation = "Recommended"
	}
	if score > 100 {
		score = 100
	}

	return models.ScoredProduct{
		ShoppingProduct: product,
		MatchScore:      score,
		MatchReasons:    reasons,
		Recommendation:  recommendation,
	}
}
