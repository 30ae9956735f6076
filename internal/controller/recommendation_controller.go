package controller

import (
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/pkg/serverutils"
	"ai-chatspace-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	GetRecommendations(ctx *fiber.Ctx) error
}

type recommendationController struct {
	recommendationService service.IRecommendationService
}

func NewRecommendationController(recommendationService service.IRecommendationService) IRecommendationController {
	return &recommendationController{
		recommendationService: recommendationService,
	}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommendation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.GetRecommendations)
}

func (c *recommendationController) GetRecommendations(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RecommendationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.recommendationService.GetRecommendations(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	// A degraded payload is still a payload; the client decides rendering.
	return ctx.JSON(serverutils.SuccessResponse("Success get recommendations", res))
}
