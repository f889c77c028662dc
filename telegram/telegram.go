package telegram

import (
	"fmt"
	"log"
	"os"
	"strings"

	"wardrobeapi/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// SendNudgeMessage delivers a wear reminder to the user's linked chat. Users
// without a linked chat are skipped silently, push covers them.
func SendNudgeMessage(user models.UserAccount, text string) error {
	if user.TelegramChatID == nil {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(*user.TelegramChatID, EscapeMessage(text))
	msg.ParseMode = "markdown"
	_, err = bot.Send(msg)
	return err
}

// RunNudgeBot links accounts to chats. A user sends /start with their account
// email and from then on wear reminders land in that chat.
func RunNudgeBot(e *echo.Echo, db *gorm.DB) {

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		if update.Message.Command() == "start" {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Hi! Send me your account email and I will link this chat to your wardrobe reminders.")
			bot.Send(msg)
			continue
		}

		email := strings.TrimSpace(update.Message.Text)
		if !strings.Contains(email, "@") {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "That doesn't look like an email. Send the email of your account to link reminders.")
			bot.Send(msg)
			continue
		}

		var user models.UserAccount
		result := db.Limit(1).Find(&user, "email = ?", email)
		if result.Error != nil {
			sentry.CaptureException(result.Error)
			continue
		}
		if result.RowsAffected == 0 || user.Banned {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "No account found for that email.")
			bot.Send(msg)
			continue
		}

		chatID := update.Message.Chat.ID
		user.TelegramChatID = &chatID
		user.TelegramUsername = update.Message.From.UserName
		if err := db.Save(&user).Error; err != nil {
			sentry.CaptureException(err)
			continue
		}

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Linked! You will get wear reminders for your wardrobe here, %s.", user.Name))
		bot.Send(msg)
	}
}
