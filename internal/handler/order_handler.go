package handler

import (
	"net/http"
	"strconv"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 麺の組み合わせ（キー名はフロントに合わせている）
type NoodleDetailsRequest struct {
	SoupID       *int64 `json:"Soup_id"`
	SizeID       *int64 `json:"Size_id"`
	MeatID       *int64 `json:"Meat_id"`
	NoodleTypeID *int64 `json:"Noodle_type_id"`
}

type CartItemRequest struct {
	Type           string                `json:"type" validate:"required,oneof=menu noodle"`
	MenuID         *int64                `json:"menuId"`
	Quantity       int64                 `json:"quantity" validate:"gt=0"`
	Price          float64               `json:"price" validate:"gte=0"`
	HomeDelivery   bool                  `json:"homeDelivery"`
	AdditionalInfo string                `json:"additionalInfo" validate:"max=1000"`
	NoodleDetails  *NoodleDetailsRequest `json:"noodleDetails"`
}

// orderIdがあれば追加注文として扱う
type OrderCreateRequest struct {
	TableID   int64             `json:"tableId"`
	OrderID   *int64            `json:"orderId"`
	CartItems []CartItemRequest `json:"cartItems" validate:"dive"`
}

type AddItemsRequest struct {
	CartItems []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
}

type OrderCreatedResponse struct {
	OrderID int64 `json:"orderId"`
}

type ItemsAddedResponse struct {
	Message  string `json:"message"`
	Inserted int64  `json:"inserted"`
}

type StaffCalledResponse struct {
	Message        string `json:"message"`
	UpdatedDetails int64  `json:"updatedDetails"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/order")
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/:orderId/items", h.addItems)
	g.GET("/:orderId", h.detail)
	g.PATCH("/:orderId/callstaff", h.callStaff)
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
	}
	ctx := c.Request().Context()
	items := toCartItems(req.CartItems)

	//既存注文への追加
	if req.OrderID != nil {
		n, err := h.uc.UpdateOrder(ctx, *req.OrderID, items)
		if err != nil {
			return writeError(c, err)
		}
		if n == 0 {
			return c.JSON(http.StatusOK, ItemsAddedResponse{Message: "no items to add to the order"})
		}
		return c.JSON(http.StatusOK, ItemsAddedResponse{Message: "items added", Inserted: n})
	}

	orderID, err := h.uc.CreateOrder(ctx, req.TableID, items)
	if err != nil {
		if orderID == 0 {
			return writeError(c, err)
		}
		//注文行は残っているのでidを返す
		status, msg := resolveError(c, err)
		return c.JSON(status, OrderErrorResponse{Error: msg, OrderID: orderID})
	}
	return c.JSON(http.StatusOK, OrderCreatedResponse{OrderID: orderID})
}

func (h *OrderHandler) addItems(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid orderId"})
	}
	var req AddItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
	}

	n, err := h.uc.AddItems(c.Request().Context(), orderID, toCartItems(req.CartItems))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsAddedResponse{Message: "items added", Inserted: n})
}

func (h *OrderHandler) detail(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid orderId"})
	}
	out, err := h.uc.GetOrderDetail(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) callStaff(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid orderId"})
	}
	n, err := h.uc.AdvanceToAwaitingPayment(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, StaffCalledResponse{
		Message:        "order status updated to awaiting payment",
		UpdatedDetails: n,
	})
}

func toCartItems(reqs []CartItemRequest) []usecase.CartItemInput {
	items := make([]usecase.CartItemInput, 0, len(reqs))
	for _, r := range reqs {
		it := usecase.CartItemInput{
			Type:     r.Type,
			MenuID:   r.MenuID,
			Quantity: r.Quantity,
			Price:    r.Price,
			TakeHome: r.HomeDelivery,
			Note:     r.AdditionalInfo,
		}
		if r.NoodleDetails != nil {
			it.Noodle = &usecase.NoodleSelection{
				SoupID:       r.NoodleDetails.SoupID,
				SizeID:       r.NoodleDetails.SizeID,
				MeatID:       r.NoodleDetails.MeatID,
				NoodleTypeID: r.NoodleDetails.NoodleTypeID,
			}
		}
		items = append(items, it)
	}
	return items
}
