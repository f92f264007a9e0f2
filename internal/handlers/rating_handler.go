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

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the rating routes with the Fiber app.
func (h *RatingHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	ratingRoutes := router.Group("/ratings", middleware.AuthRequired(authService))
	ratingRoutes.Post("/", middleware.RequireRoles(models.RoleUser), h.HandleSubmitRating)
	ratingRoutes.Get("/user", h.HandleGetUserRatings)
}

// SubmitRatingRequest represents the request body for a rating submission.
type SubmitRatingRequest struct {
	StoreID string `json:"store_id" validate:"required"`
	Value   int    `json:"value"`
}

// HandleSubmitRating submits or updates the caller's rating for a store.
func (h *RatingHandler) HandleSubmitRating(c *fiber.Ctx) error {
	var req SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing rating request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	rating, isUpdate, err := h.ratingService.Submit(middleware.UserID(c), req.StoreID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRatingValue):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, services.ErrStoreNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store not found",
			})
		}
		log.Printf("Error submitting rating: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not submit rating",
		})
	}

	message := "Rating submitted successfully"
	if isUpdate {
		message = "Rating updated successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"rating":  rating,
	})
}

// HandleGetUserRatings lists the caller's ratings with store summaries,
// most recently updated first.
func (h *RatingHandler) HandleGetUserRatings(c *fiber.Ctx) error {
	entries, err := h.ratingService.ListForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing user ratings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve ratings",
		})
	}
	return c.JSON(fiber.Map{"ratings": entries})
}
