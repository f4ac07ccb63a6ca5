package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type OrderController struct {
	store store.Store
	// notify runs after a successful checkout, in its own goroutine. Tests
	// swap it out so nothing dials SMTP.
	notify func(*models.Order)
}

func NewOrderController(st store.Store) *OrderController {
	return &OrderController{store: st, notify: utils.SendOrderEmails}
}

type orderCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Company string `json:"company"`
	TaxID   string `json:"taxId"`
}

type orderAddressRequest struct {
	Address1   string `json:"address1" validate:"required"`
	Address2   string `json:"address2"`
	City       string `json:"city" validate:"required"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type orderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Customer        orderCustomerRequest `json:"customer"`
	BillingAddress  orderAddressRequest  `json:"billingAddress"`
	ShippingAddress orderAddressRequest  `json:"shippingAddress"`
	Items           []orderItemRequest   `json:"items"`
	ShippingCost    float64              `json:"shippingCost"`
	Notes           string               `json:"notes"`
}

// Create handles POST /v1/orders, the checkout submission. Item prices are
// snapshotted at retail price. Stock is decremented per accepted item as the
// loop goes; there is no compensating rollback if a later item fails.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	if len(req.Items) == 0 || req.BillingAddress.Address1 == "" {
		utils.WriteError(w, http.StatusBadRequest, "Gerekli alanlar eksik")
		return
	}
	if err := utils.ValidateStruct(&req.Customer); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Gerekli alanlar eksik: "+err.Error())
		return
	}

	ctx := r.Context()
	fullName := strings.TrimSpace(req.Customer.Name + " " + req.Customer.Surname)

	var items []models.OrderItem
	var subtotal float64
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "Geçersiz ürün bilgisi")
			return
		}

		var product models.Product
		err := c.store.Collection(store.Products).FindByID(ctx, item.ProductID, &product)
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusBadRequest, "Ürün bulunamadı: "+item.ProductID)
			return
		}
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Sipariş oluşturulamadı")
			return
		}

		if product.Stock < item.Quantity {
			utils.WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("Yetersiz stok: %s (Mevcut: %d, İstenen: %d)", product.Name, product.Stock, item.Quantity))
			return
		}

		unitPrice := product.RetailPrice
		itemTotal := utils.Round2(unitPrice * float64(item.Quantity))
		subtotal += itemTotal

		items = append(items, models.OrderItem{
			ProductID:  item.ProductID,
			Name:       product.Name,
			SKU:        product.SKU,
			Category:   product.Category,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: itemTotal,
		})

		if _, err := c.store.UpdateStock(ctx, item.ProductID, -item.Quantity); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				// lost a race with another checkout between the read and
				// the decrement
				utils.WriteError(w, http.StatusBadRequest,
					fmt.Sprintf("Yetersiz stok: %s (Mevcut: %d, İstenen: %d)", product.Name, product.Stock, item.Quantity))
				return
			}
			utils.WriteError(w, http.StatusInternalServerError, "Sipariş oluşturulamadı")
			return
		}
	}

	notes := req.Notes
	if notes == "" {
		notes = "Website siparişi"
	}

	order := &models.Order{
		Customer: models.OrderCustomer{
			Name:    fullName,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Company: req.Customer.Company,
			TaxID:   req.Customer.TaxID,
		},
		BillingAddress:  toAddress(fullName, req.Customer, req.BillingAddress),
		ShippingAddress: toAddress(fullName, req.Customer, req.ShippingAddress),
		Items:           items,
		Subtotal:        utils.Round2(subtotal),
		TaxAmount:       0, // KDV is included in retail prices
		ShippingCost:    req.ShippingCost,
		DiscountAmount:  0,
		TotalAmount:     utils.Round2(subtotal + req.ShippingCost),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   models.PaymentBankTransfer,
		Notes:           notes,
		CreatedBy:       nil, // website order
	}

	if err := c.store.CreateOrder(ctx, order); err != nil {
		log.Printf("[orders] create failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Sipariş oluşturulamadı")
		return
	}

	// The response does not wait for delivery; failures are logged inside.
	go c.notify(order)

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Sipariş başarıyla oluşturuldu",
		Data: map[string]interface{}{
			"orderNumber": order.OrderNumber,
			"orderId":     order.ID,
		},
	})
}

// Track handles GET /v1/orders?orderNumber=... for customer order lookup.
func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	orderNumber := strings.TrimSpace(r.URL.Query().Get("orderNumber"))
	if orderNumber == "" {
		utils.WriteError(w, http.StatusBadRequest, "Sipariş numarası gerekli")
		return
	}

	var order models.Order
	err := c.store.Collection(store.Orders).FindOne(r.Context(), store.Filter{"orderNumber": orderNumber}, &order)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Sipariş bulunamadı")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Sipariş bilgileri alınamadı")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: order})
}

// List handles GET /v1/orders/list, the authenticated admin listing, newest
// first.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	filter := store.Filter{}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		filter["status"] = status
	}

	var orders []models.Order
	err := c.store.Collection(store.Orders).
		Find(filter).
		Sort("createdAt", -1).
		Skip((page - 1) * limit).
		Limit(limit).
		All(r.Context(), &orders)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Siparişler yüklenemedi")
		return
	}

	total, err := c.store.Collection(store.Orders).Count(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Siparişler yüklenemedi")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"orders": orders,
			"total":  total,
			"page":   page,
			"limit":  limit,
		},
	})
}

func toAddress(fullName string, cust orderCustomerRequest, addr orderAddressRequest) models.Address {
	postalCode := addr.PostalCode
	if postalCode == "" {
		postalCode = "00000"
	}
	country := addr.Country
	if country == "" {
		country = "Türkiye"
	}
	return models.Address{
		Name:       fullName,
		Company:    cust.Company,
		Address1:   addr.Address1,
		Address2:   addr.Address2,
		City:       addr.City,
		State:      addr.District,
		PostalCode: postalCode,
		Country:    country,
		Phone:      cust.Phone,
	}
}
