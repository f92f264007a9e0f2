package handlers

import (
	"errors"
	"log"

	"nilai/internal/middleware"
	"nilai/internal/models"
	"nilai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	storeService *services.StoreService
	validate     *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the store routes with the Fiber app. Listings are
// public but resolve the caller's identity when a token is present; creation
// is admin-only and the ratings dashboard is owner-only.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", middleware.OptionalAuth(authService), h.HandleGetStores)
	storeRoutes.Get("/owner/ratings", middleware.AuthRequired(authService), middleware.RequireRoles(models.RoleStoreOwner), h.HandleOwnerRatings)
	storeRoutes.Get("/:id", middleware.OptionalAuth(authService), h.HandleGetStoreByID)
	storeRoutes.Post("/", middleware.AuthRequired(authService), middleware.RequireRoles(models.RoleAdmin), h.HandleCreateStore)
}

// HandleGetStores lists stores, optionally filtered by name and address.
func (h *StoreHandler) HandleGetStores(c *fiber.Ctx) error {
	stores, err := h.storeService.ListStores(c.Query("name"), c.Query("address"), middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing stores: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stores",
		})
	}
	return c.JSON(fiber.Map{"stores": stores})
}

// HandleGetStoreByID retrieves a single store by its ID.
func (h *StoreHandler) HandleGetStoreByID(c *fiber.Ctx) error {
	store, err := h.storeService.GetStore(c.Params("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store not found",
			})
		}
		log.Printf("Error getting store %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve store",
		})
	}
	return c.JSON(fiber.Map{"store": store})
}

// CreateStoreRequest represents the request body for store creation.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=60"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,min=1,max=400"`
	OwnerID string `json:"owner_id" validate:"omitempty,uuid"`
}

// HandleCreateStore creates a store, promoting the assigned owner to
// STORE_OWNER when one is given.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create-store request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	store, err := h.storeService.CreateStore(req.Name, req.Email, req.Address, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Store email already in use",
			})
		case errors.Is(err, services.ErrOwnerNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Store owner not found",
			})
		}
		log.Printf("Error creating store: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create store",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store created successfully",
		"store":   store,
	})
}

// HandleOwnerRatings returns the caller's store with its aggregate and
// per-user ratings.
func (h *StoreHandler) HandleOwnerRatings(c *fiber.Ctx) error {
	dashboard, err := h.storeService.OwnerDashboard(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "You do not own a store",
			})
		}
		log.Printf("Error loading owner dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve store ratings",
		})
	}
	return c.JSON(dashboard)
}
