package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	trackingService *service.TrackingService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(trackingService *service.TrackingService) *ShipmentHandler {
	return &ShipmentHandler{
		trackingService: trackingService,
	}
}

// RegisterRoutes mounts the shipment endpoints on the router.
func (h *ShipmentHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/shipments", h.CreateShipment)
	r.Get("/shipments/:number", h.TrackShipment)
	r.Patch("/shipments/:number/status", h.UpdateShipmentStatus)
	r.Get("/shipments/:number/proof", h.GetDeliveryProof)
	r.Get("/users/:id/shipments", h.GetUserShipments)
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// CreateShipmentRequest is the body of POST /shipments.
type CreateShipmentRequest struct {
	OrderID     string            `json:"orderId" validate:"required"`
	Seller      string            `json:"seller"`
	Buyer       string            `json:"buyer"`
	Provider    string            `json:"provider"`
	Service     string            `json:"service"`
	Origin      domain.Address    `json:"origin"`
	Destination domain.Address    `json:"destination"`
	Weight      float64           `json:"weight" validate:"gte=0"`
	Dimensions  domain.Dimensions `json:"dimensions"`
	Value       float64           `json:"value" validate:"gte=0"`
	AutoUpdate  *bool             `json:"autoUpdate"`
}

// UpdateStatusRequest is the body of PATCH /shipments/{number}/status.
type UpdateStatusRequest struct {
	// Status accepts the display value ("In Transit") or the enum name ("IN_TRANSIT"). Empty keeps the current status.
	Status            string                `json:"status"`
	Location          string                `json:"location" validate:"max=200"`
	Description       string                `json:"description" validate:"max=500"`
	EstimatedDelivery *time.Time            `json:"estimatedDelivery"`
	DeliveryProof     *domain.DeliveryProof `json:"deliveryProof"`
}

// CreateShipment godoc
// @Summary Create a shipment
// @Description Creates a shipment in the Order Created state and registers it with the carrier when one is set
// @Tags shipments
// @Accept json
// @Produce json
// @Param request body CreateShipmentRequest true "Order data"
// @Success 201 {object} service.CreateShipmentResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments [post]
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	var req CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, validationMessage(err))
	}

	result, err := h.trackingService.CreateShipment(c.UserContext(), service.CreateShipmentInput{
		OrderID:     req.OrderID,
		Seller:      req.Seller,
		Buyer:       req.Buyer,
		Provider:    req.Provider,
		Service:     req.Service,
		Origin:      req.Origin,
		Destination: req.Destination,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		Value:       req.Value,
		AutoUpdate:  req.AutoUpdate,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// TrackShipment godoc
// @Summary Track a shipment
// @Description Returns the current status and full history, refreshed from the carrier when possible
// @Tags shipments
// @Produce json
// @Param number path string true "Tracking Number"
// @Success 200 {object} service.TrackingView
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{number} [get]
func (h *ShipmentHandler) TrackShipment(c *fiber.Ctx) error {
	view, err := h.trackingService.TrackShipment(c.UserContext(), c.Params("number"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(view)
}

// UpdateShipmentStatus godoc
// @Summary Update a shipment status
// @Description Applies a status update. A history entry is appended only when the status changes.
// @Tags shipments
// @Accept json
// @Produce json
// @Param number path string true "Tracking Number"
// @Param request body UpdateStatusRequest true "Status update"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{number}/status [patch]
func (h *ShipmentHandler) UpdateShipmentStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, validationMessage(err))
	}

	update := domain.StatusUpdate{
		Location:          req.Location,
		Description:       req.Description,
		EstimatedDelivery: req.EstimatedDelivery,
		DeliveryProof:     req.DeliveryProof,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return handleError(c, err)
		}
		update.Status = status
	}

	shipment, err := h.trackingService.UpdateShipmentStatus(c.UserContext(), c.Params("number"), update)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(shipment)
}

// GetDeliveryProof godoc
// @Summary Get delivery proof
// @Description Returns the delivery proof, or success=false when the shipment is not delivered yet
// @Tags shipments
// @Produce json
// @Param number path string true "Tracking Number"
// @Success 200 {object} service.DeliveryProofResult
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{number}/proof [get]
func (h *ShipmentHandler) GetDeliveryProof(c *fiber.Ctx) error {
	result, err := h.trackingService.GetDeliveryProof(c.UserContext(), c.Params("number"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// GetUserShipments godoc
// @Summary List a user's shipments
// @Description Lists shipment summaries for a buyer or seller, newest first
// @Tags shipments
// @Produce json
// @Param id path string true "User ID"
// @Param role query string false "buyer (default) or seller"
// @Success 200 {array} domain.ShipmentSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id}/shipments [get]
func (h *ShipmentHandler) GetUserShipments(c *fiber.Ctx) error {
	summaries, err := h.trackingService.GetUserShipments(c.UserContext(), c.Params("id"), c.Query("role"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(summaries)
}

func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, "shipment not found")
	case errors.Is(err, domain.ErrIllegalTransition):
		return respondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidProvider),
		errors.Is(err, domain.ErrInvalidRole):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	default:
		logger.Get().Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return respondError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   rayID(c),
	})
}

// rayID returns the request id set by the requestid middleware, if any.
func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
