package handler

import (
	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/service"
)

type chatBody struct {
	Message string `json:"message"`
}

// Chat godoc
// @Summary Ask the nutrition assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatBody true "Question"
// @Success 200 {object} nutrition.ChatReply
// @Failure 400 {object} errorPayload
// @Router /api/chat [post]
func Chat(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body chatBody
		if err := parseJSON(c, &body); err != nil {
			return writeServiceError(c, err)
		}
		reply, err := svc.Ask(c.UserContext(), body.Message)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(reply)
	}
}
