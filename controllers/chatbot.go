package controllers

import (
	"fmt"
	"net/http"

	"wardrobeapi/models"
	"wardrobeapi/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ChatbotController struct {
	Chat *services.ChatService
}

func (controller *ChatbotController) ChatbotRoutes(g *echo.Group) {
	g.POST("/chat", controller.SendMessage)
	g.GET("/quick-tips", controller.GetQuickTips)
}

func (controller *ChatbotController) SendMessage(c echo.Context) error {
	var req models.ChatIn
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

	var wardrobeCount int64
	db.Model(&models.WardrobeItem{}).Where("owner_id = ?", user.ID).Count(&wardrobeCount)

	reply, fallback := controller.Chat.Chat(user, wardrobeCount, req.Message, req.ConversationHistory)
	return c.JSON(http.StatusOK, models.ChatOut{
		Reply:    reply,
		Fallback: fallback,
	})
}

func (controller *ChatbotController) GetQuickTips(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tips": services.QuickTips()})
}
