package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

type orderDTO struct {
	ID              int64          `json:"id"`
	OrderNumber     string         `json:"order_number"`
	Status          string         `json:"status"`
	TotalAmount     string         `json:"total_amount"`
	DeliveryFee     string         `json:"delivery_fee"`
	TaxAmount       string         `json:"tax_amount"`
	DiscountAmount  string         `json:"discount_amount"`
	FinalAmount     string         `json:"final_amount"`
	DeliveryAddress addressDTO     `json:"delivery_address"`
	PaymentMethod   string         `json:"payment_method"`
	PaymentStatus   string         `json:"payment_status"`
	Restaurant      int64          `json:"restaurant"`
	Items           []orderItemDTO `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (d orderDTO) toDomain() (*domain.Order, error) {
	o := &domain.Order{
		ID:              d.ID,
		OrderNumber:     d.OrderNumber,
		Status:          domain.Status(d.Status),
		DeliveryAddress: d.DeliveryAddress.toDomain(),
		PaymentMethod:   domain.PaymentMethod(d.PaymentMethod),
		PaymentStatus:   domain.PaymentStatus(d.PaymentStatus),
		RestaurantID:    d.Restaurant,
		CreatedAt:       d.CreatedAt,
	}
	if !o.Status.Valid() {
		return nil, fmt.Errorf("%w: order %d status %q", ErrUnexpectedShape, d.ID, d.Status)
	}
	for name, pair := range map[string]struct {
		src string
		dst *domain.Money
	}{
		"total_amount":    {d.TotalAmount, &o.TotalAmount},
		"delivery_fee":    {d.DeliveryFee, &o.DeliveryFee},
		"tax_amount":      {d.TaxAmount, &o.TaxAmount},
		"discount_amount": {d.DiscountAmount, &o.DiscountAmount},
		"final_amount":    {d.FinalAmount, &o.FinalAmount},
	} {
		m, err := domain.ParseMoney(pair.src)
		if err != nil {
			return nil, fmt.Errorf("order %d %s: %w", d.ID, name, err)
		}
		*pair.dst = m
	}
	for _, it := range d.Items {
		item, err := it.toDomain()
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return o, nil
}

type orderItemDTO struct {
	ID           int64  `json:"id"`
	Order        int64  `json:"order"`
	MenuItem     int64  `json:"menu_item"`
	MenuItemName string `json:"menu_item_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Subtotal     string `json:"subtotal"`
}

func (d orderItemDTO) toDomain() (domain.OrderItem, error) {
	price, err := domain.ParseMoney(d.UnitPrice)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("order item %d unit_price: %w", d.ID, err)
	}
	item := domain.OrderItem{
		ID:         d.ID,
		OrderID:    d.Order,
		MenuItemID: d.MenuItem,
		Name:       d.MenuItemName,
		Quantity:   d.Quantity,
		UnitPrice:  price,
	}
	if d.Subtotal != "" {
		sub, err := domain.ParseMoney(d.Subtotal)
		if err != nil {
			return domain.OrderItem{}, fmt.Errorf("order item %d subtotal: %w", d.ID, err)
		}
		item.Subtotal = sub
	} else {
		item.Subtotal = price.MulQty(d.Quantity)
	}
	return item, nil
}

func (c *Client) CreateOrder(ctx context.Context, cr usecase.Credentials, idemKey string, d usecase.OrderDraft) (*domain.Order, error) {
	body := map[string]any{
		"restaurant":      d.RestaurantID,
		"status":          string(domain.StatusPending),
		"total_amount":    d.Totals.Subtotal.String(),
		"delivery_fee":    d.Totals.DeliveryFee.String(),
		"tax_amount":      d.Totals.Tax.String(),
		"discount_amount": d.Totals.Discount.String(),
		"final_amount":    d.Totals.Total.String(),
		"payment_method":  string(d.PaymentMethod),
		"payment_status":  string(domain.PaymentPending),
		"delivery_address": map[string]any{
			"address_line_1": d.Address.Line1,
			"address_line_2": d.Address.Line2,
			"city":           d.Address.City,
			"state":          d.Address.State,
			"postal_code":    d.Address.PostalCode,
			"address_type":   d.Address.Label,
		},
	}
	var dto orderDTO
	err := c.do(ctx, cr, call{
		method:  http.MethodPost,
		path:    "/orders/orders/",
		body:    body,
		idemKey: idemKey,
	}, &dto)
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

func (c *Client) CreateOrderItem(ctx context.Context, cr usecase.Credentials, idemKey string, d usecase.OrderItemDraft) error {
	return c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/orders/order-items/",
		body: map[string]any{
			"order":      d.OrderID,
			"menu_item":  d.MenuItemID,
			"quantity":   d.Quantity,
			"unit_price": d.UnitPrice.String(),
		},
		idemKey: idemKey,
	}, nil)
}

func (c *Client) GetOrder(ctx context.Context, cr usecase.Credentials, id int64) (*domain.Order, error) {
	var dto orderDTO
	err := c.do(ctx, cr, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/orders/orders/%d/", id),
	}, &dto)
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

func (c *Client) ListOrders(ctx context.Context, cr usecase.Credentials, q usecase.OrderQuery) ([]domain.Order, error) {
	query := url.Values{}
	if q.RestaurantID != 0 {
		query.Set("restaurant", strconv.FormatInt(q.RestaurantID, 10))
	}
	dtos, err := doList[orderDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/orders/orders/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(dtos))
	for _, d := range dtos {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (c *Client) ListOrderItems(ctx context.Context, cr usecase.Credentials, orderID int64) ([]domain.OrderItem, error) {
	query := url.Values{}
	query.Set("order", strconv.FormatInt(orderID, 10))
	dtos, err := doList[orderItemDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/orders/order-items/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderItem, 0, len(dtos))
	for _, d := range dtos {
		item, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type historyDTO struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Notes     string    `json:"notes"`
}

func (c *Client) StatusHistory(ctx context.Context, cr usecase.Credentials, orderID int64) ([]domain.StatusHistoryEntry, error) {
	query := url.Values{}
	query.Set("order", strconv.FormatInt(orderID, 10))
	dtos, err := doList[historyDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/orders/order-status-history/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.StatusHistoryEntry, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.StatusHistoryEntry{
			Status:    domain.Status(d.Status),
			CreatedAt: d.CreatedAt,
			Notes:     d.Notes,
		})
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, cr usecase.Credentials, orderID int64, to domain.Status) error {
	return c.do(ctx, cr, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/orders/orders/%d/", orderID),
		body:   map[string]any{"status": string(to)},
	}, nil)
}

var _ usecase.OrderGateway = (*Client)(nil)
