package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/middleware"
	"github.com/example/nilkanth/internal/models"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	DeliveryAddress *addressRequest    `json:"delivery_address"`
	PhoneNumber     string             `json:"phone_number"`
}

// CreateOrder places a new order for the authenticated user. The submitted
// total is accepted as authoritative; COD is the only payment method.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	if req.TotalAmount == 0 || req.DeliveryAddress == nil || req.PhoneNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields (items, total, address, phone)")
	}

	address := models.Address{
		Street:   req.DeliveryAddress.Street,
		City:     req.DeliveryAddress.City,
		State:    req.DeliveryAddress.State,
		Pincode:  req.DeliveryAddress.Pincode,
		Landmark: req.DeliveryAddress.Landmark,
	}
	if !address.Complete() {
		return fiber.NewError(fiber.StatusBadRequest, "incomplete address details")
	}

	order := models.Order{
		UserID:          userID,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: address,
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.StatusPlaced,
	}

	for _, item := range req.Items {
		itemRef := item.ItemID
		if itemRef == "" {
			// Static menu items carry no id; the name stands in.
			itemRef = item.Name
		}
		order.Items = append(order.Items, models.OrderItem{
			ItemRef:   itemRef,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	// First successful order seeds missing profile fields. The order is
	// already durable, so a backfill failure is logged and not fatal.
	h.backfillProfile(userID, req.PhoneNumber, address)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// backfillProfile copies the order's phone and address onto the owning user
// when the profile lacks them.
func (h *OrderHandler) backfillProfile(userID uuid.UUID, phone string, address models.Address) {
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("[Order] Profile backfill lookup failed for user %s: %v", userID, err)
		return
	}

	updates := map[string]interface{}{}
	if user.Phone == nil {
		updates["phone"] = phone
	}
	if user.Address.Street == "" {
		updates["address_street"] = address.Street
		updates["address_city"] = address.City
		updates["address_state"] = address.State
		updates["address_pincode"] = address.Pincode
		updates["address_landmark"] = address.Landmark
	}

	if len(updates) == 0 {
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("[Order] Profile backfill failed for user %s: %v", userID, err)
	}
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

// GetOrder returns a single order owned by the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}
