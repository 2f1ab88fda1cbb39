package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/dto"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/pkg/serverutils"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

// RegisterRoutes mounts the API at the application root. The routes and body
// shapes are the published contract of the service.
func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Health)
	r.Post("/chat", c.SendChat)
	r.Post("/session/new", c.CreateSession)
	r.Post("/session/:id/clear", c.ClearHistory)
	r.Delete("/session/:id", c.DeleteSession)
	r.Get("/session/:id/messages", c.GetMessages)
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:  "ok",
		Message: "AWS MCP Chat API is running",
	})
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	res, err := c.service.ClearHistory(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	res, err := c.service.DeleteSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	res, err := c.service.GetMessages(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
