package handlers

import (
	"errors"
	"log"

	"nilai/internal/middleware"
	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the admin-only user management endpoints. Creation
// goes through AuthService so the password policy and hashing apply.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user management routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	userRoutes := router.Group("/users", middleware.AuthRequired(authService), middleware.RequireRoles(models.RoleAdmin))
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/dashboard-stats", h.HandleDashboardStats)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Post("/", h.HandleCreateUser)
}

// HandleGetUsers lists users, optionally filtered by name, email, address
// and role.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
		Role:    models.Role(c.Query("role")),
	}
	users, err := h.userService.ListUsers(filter)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleGetUserByID retrieves a single user, with their owned store when
// present.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error getting user %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve user",
		})
	}
	return c.JSON(fiber.Map{"user": user})
}

// CreateUserRequest represents the request body for admin user creation.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address" validate:"required,min=1,max=400"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER STORE_OWNER"`
}

// HandleCreateUser creates a user with an explicit role.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create-user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user, err := h.authService.CreateUser(req.Name, req.Email, req.Password, req.Address, models.Role(req.Role))
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrPasswordPolicy) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// HandleDashboardStats returns the admin dashboard totals.
func (h *UserHandler) HandleDashboardStats(c *fiber.Ctx) error {
	stats, err := h.userService.Stats()
	if err != nil {
		log.Printf("Error loading dashboard stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stats",
		})
	}
	return c.JSON(fiber.Map{"stats": stats})
}
