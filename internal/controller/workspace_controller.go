package controller

import (
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/pkg/serverutils"
	"ai-chatspace-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Snapshot(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaceService service.IWorkspaceService
}

func NewWorkspaceController(workspaceService service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{
		workspaceService: workspaceService,
	}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspace/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	// Static route first so "home" is never captured as an id.
	h.Get("home/snapshot", c.Snapshot)
	h.Get(":id/snapshot", c.Snapshot)
}

func (c *workspaceController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.workspaceService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get workspaces", res))
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateWorkspaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workspaceService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create workspace", res))
}

// Snapshot serves both the addressed form (/:id/snapshot) and the home
// fallback form (/home/snapshot, no id).
func (c *workspaceController) Snapshot(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	workspaceId := uuid.Nil
	if idParam := ctx.Params("id"); idParam != "" {
		workspaceId, _ = uuid.Parse(idParam)
	}

	res, err := c.workspaceService.Snapshot(ctx.Context(), userId, workspaceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load workspace snapshot", res))
}
