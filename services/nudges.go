package services

import (
	"fmt"
	"strings"
)

// FallbackNudge is the deterministic wear reminder line.
func FallbackNudge(itemName string, daysUnworn int) string {
	return fmt.Sprintf("You haven't worn '%s' in %d days.", itemName, daysUnworn)
}

// GenerateNudge asks the model for a friendly one-liner about a neglected
// item, degrading to the fixed line on any failure.
func GenerateNudge(stylist LLMStylist, model LLMModelName, itemName string, daysUnworn, wearCount int) string {
	prompt := fmt.Sprintf(
		"Generate a friendly 1-sentence notification: Item '%s' has been unworn for %d days (worn %d times total). Encourage wearing it or donating.",
		itemName, daysUnworn, wearCount)

	resp, err := stylist.GenerateText(prompt, "", model)
	if err != nil {
		return FallbackNudge(itemName, daysUnworn)
	}
	line := strings.TrimSpace(resp.Response)
	if line == "" {
		return FallbackNudge(itemName, daysUnworn)
	}
	return line
}
