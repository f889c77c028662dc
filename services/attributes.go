package services

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DetectedAttributes is the structured result of a clothing image analysis.
type DetectedAttributes struct {
	ItemName    string   `json:"item_name"`
	Category    string   `json:"category"`
	SubCategory string   `json:"sub_category"`
	Fabric      string   `json:"fabric"`
	Color       string   `json:"color"`
	Pattern     string   `json:"pattern"`
	Style       string   `json:"style"`
	Season      string   `json:"season"`
	Gender      string   `json:"gender"`
	Brand       string   `json:"brand"`
	Occasions   []string `json:"occasions"`
}

var requiredDetectionFields = []string{
	"item_name",
	"category",
	"sub_category",
	"fabric",
	"color",
	"pattern",
	"style",
	"season",
	"gender",
}

var titleCaser = cases.Title(language.English)

// TitleItemName normalizes a detected name for display.
func TitleItemName(name string) string {
	return titleCaser.String(name)
}

// FallbackDetection is the editable placeholder record used when the vision
// model cannot be trusted for this image.
func FallbackDetection() DetectedAttributes {
	return DetectedAttributes{
		ItemName:    "Clothing Item - Please Edit",
		Category:    "Tops",
		SubCategory: "Please specify type",
		Fabric:      "Please specify fabric",
		Color:       "Please specify color",
		Pattern:     "solid",
		Style:       "casual",
		Season:      "all-season",
		Gender:      "female",
		Occasions:   []string{"casual", "everyday"},
	}
}

// BuildDetectionPrompt asks the vision model for one JSON object describing
// the garment in the image.
func BuildDetectionPrompt() string {
	return `You are an expert fashion analyst. Analyze this clothing image in detail.

Identify and return ONLY a valid JSON object with these exact fields:

{
    "item_name": "Descriptive name (e.g., 'Burgundy Silk Anarkali Dress', 'Navy Cotton Shirt')",
    "category": "Main category - choose from: Tops, Bottoms, Dresses, Outerwear, Footwear, Accessories",
    "sub_category": "Specific type (e.g., shirt, kurta, jeans, maxi dress, saree, lehenga)",
    "fabric": "Fabric material (e.g., cotton, silk, polyester, chiffon, georgette, denim)",
    "color": "Specific color shade (e.g., burgundy, navy blue, emerald green, mustard yellow)",
    "pattern": "Pattern type (e.g., solid, striped, floral, checkered, embroidered)",
    "style": "Fashion style (e.g., casual, formal, traditional, ethnic, festive, party)",
    "season": "Best season (e.g., spring, summer, fall, winter, all-season)",
    "gender": "Target gender - 'male' for men's wear (shirts, pants, jeans, suits, kurtas), 'female' for dresses, kurtis, sarees, blouses, skirts, etc.",
    "occasions": ["List 2-3 occasions"]
}

Return ONLY the JSON object.`
}

// ParseDetection extracts the detection object from raw model output. One
// absent required field is tolerated (a missing gender defaults to female),
// anything worse degrades to the fallback record. The second return value
// reports whether the fallback was used.
func ParseDetection(text string) (DetectedAttributes, bool) {
	raw, err := ExtractJSONObjectRaw(text)
	if err != nil {
		fmt.Println("[Detection] no JSON in model output:", err)
		return FallbackDetection(), true
	}

	var missing []string
	for _, field := range requiredDetectionFields {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		fmt.Println("[Detection] missing fields:", missing)
		if _, ok := raw["gender"]; !ok {
			raw["gender"] = "female"
		}
		if len(missing) > 1 {
			return FallbackDetection(), true
		}
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return FallbackDetection(), true
	}
	var detected DetectedAttributes
	if err := json.Unmarshal(encoded, &detected); err != nil {
		fmt.Println("[Detection] malformed detection object:", err)
		return FallbackDetection(), true
	}
	detected.ItemName = TitleItemName(detected.ItemName)
	return detected, false
}
