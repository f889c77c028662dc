package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"wardrobeapi/models"
)

// chatHistoryWindow is the number of prior turns carried into the prompt.
const chatHistoryWindow = 5

// ChatFallbackReply is used when the stylist backend is down.
const ChatFallbackReply = "I'm having trouble thinking right now. Please try again in a few moments!"

// QuickTips is the static tip list served next to the chat.
func QuickTips() []string {
	return []string{
		"Mix textures for visual interest",
		"The rule of thirds: accessories should take up 1/3 of your outfit",
		"Neutral colors are your foundation",
		"Invest in quality basics",
		"Tailoring can transform an outfit",
	}
}

// ChatService answers free-form style questions with the user's wardrobe and
// profile as system context.
type ChatService struct {
	Stylist LLMStylist
	Model   LLMModelName
}

func buildChatContext(user models.UserAccount, wardrobeCount int64) string {
	orNotSpecified := func(value string) string {
		if value == "" {
			return "not specified"
		}
		return value
	}
	stylePrefs := "not specified"
	if len(user.PreferredStyles) > 0 {
		stylePrefs = strings.Join(user.PreferredStyles, ", ")
	}
	return fmt.Sprintf(`I'm your fashion advisor. I know that:
- You have %d items in your wardrobe
- Your body shape: %s
- Your skin tone: %s
- Your location: %s
- Your style preferences: %s

I'm here to provide personalized fashion advice, outfit suggestions, and style tips.`,
		wardrobeCount,
		orNotSpecified(user.BodyShape),
		orNotSpecified(user.SkinTone),
		orNotSpecified(user.Location),
		stylePrefs)
}

// Chat folds the last turns of history plus the new message into one prompt.
// The fallback flag reports whether the canned reply was used.
func (s *ChatService) Chat(user models.UserAccount, wardrobeCount int64, message string, history []models.ChatTurn) (string, bool) {
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	var b strings.Builder
	for _, turn := range history {
		b.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
	}
	b.WriteString(fmt.Sprintf("user: %s\n", message))
	b.WriteString("assistant:")

	resp, err := s.Stylist.GenerateText(b.String(), buildChatContext(user, wardrobeCount), s.Model)
	if err != nil {
		if !errors.Is(err, ErrGenerationUnavailable) {
			sentry.CaptureException(err)
		}
		fmt.Printf("[User %v] chat generation failed, using fallback: %v\n", user.ID, err)
		return ChatFallbackReply, true
	}

	reply := strings.TrimSpace(resp.Response)
	if reply == "" {
		return ChatFallbackReply, true
	}
	return reply, false
}
