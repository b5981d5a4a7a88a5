package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

// In-memory gateway and store fakes shared by the use case tests.

type fakeCart struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	deleted map[int64]int
	listErr error
	delErr  error
}

func newFakeCart(lines ...domain.CartLine) *fakeCart {
	return &fakeCart{lines: lines, deleted: map[int64]int{}}
}

func (f *fakeCart) ListCartLines(ctx context.Context, cr Credentials) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.CartLine, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeCart) AddCartLine(ctx context.Context, cr Credentials, menuItemID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lines {
		if f.lines[i].MenuItemID == menuItemID {
			f.lines[i].Quantity += qty
			return nil
		}
	}
	f.lines = append(f.lines, domain.CartLine{
		ID:         int64(len(f.lines) + 1),
		MenuItemID: menuItemID,
		Quantity:   qty,
	})
	return nil
}

func (f *fakeCart) UpdateCartLine(ctx context.Context, cr Credentials, lineID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			if qty == 0 {
				return fmt.Errorf("zero quantity written upstream for line %d", lineID)
			}
			f.lines[i].Quantity = qty
			return nil
		}
	}
	return &UpstreamError{Status: 404, Message: "not found"}
}

func (f *fakeCart) DeleteCartLine(ctx context.Context, cr Credentials, lineID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted[lineID]++
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			break
		}
	}
	return nil
}

type fakeOrders struct {
	mu          sync.Mutex
	nextID      int64
	orders      map[int64]*domain.Order
	items       []OrderItemDraft
	history     map[int64][]domain.StatusHistoryEntry
	createErr   error
	itemErrAt   int // fail creating the item with this index once; -1 disables
	itemErrOnce bool
	historyErr  error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders:    map[int64]*domain.Order{},
		history:   map[int64][]domain.StatusHistoryEntry{},
		itemErrAt: -1,
	}
}

func (f *fakeOrders) CreateOrder(ctx context.Context, cr Credentials, idemKey string, d OrderDraft) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	o := &domain.Order{
		ID:              f.nextID,
		OrderNumber:     fmt.Sprintf("MM-%04d", f.nextID),
		Status:          domain.StatusPending,
		TotalAmount:     d.Totals.Subtotal,
		DeliveryFee:     d.Totals.DeliveryFee,
		TaxAmount:       d.Totals.Tax,
		DiscountAmount:  d.Totals.Discount,
		FinalAmount:     d.Totals.Total,
		DeliveryAddress: d.Address,
		PaymentMethod:   d.PaymentMethod,
		RestaurantID:    d.RestaurantID,
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) CreateOrderItem(ctx context.Context, cr Credentials, idemKey string, d OrderItemDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.itemErrAt >= 0 && len(f.items) == f.itemErrAt {
		if f.itemErrOnce {
			f.itemErrAt = -1
		}
		return &UpstreamError{Status: 500, Message: "item create failed"}
	}
	f.items = append(f.items, d)
	return nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, cr Credentials, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &UpstreamError{Status: 404, Message: "order not found"}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListOrders(ctx context.Context, cr Credentials, q OrderQuery) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if q.RestaurantID != 0 && o.RestaurantID != q.RestaurantID {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) ListOrderItems(ctx context.Context, cr Credentials, orderID int64) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.OrderItem
	for i, d := range f.items {
		if d.OrderID == orderID {
			out = append(out, domain.OrderItem{
				ID:         int64(i + 1),
				OrderID:    d.OrderID,
				MenuItemID: d.MenuItemID,
				Quantity:   d.Quantity,
				UnitPrice:  d.UnitPrice,
			})
		}
	}
	return out, nil
}

func (f *fakeOrders) StatusHistory(ctx context.Context, cr Credentials, orderID int64) ([]domain.StatusHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[orderID], nil
}

func (f *fakeOrders) UpdateOrderStatus(ctx context.Context, cr Credentials, orderID int64, to domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return &UpstreamError{Status: 404, Message: "order not found"}
	}
	o.Status = to
	return nil
}

func (f *fakeOrders) setStatus(orderID int64, s domain.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[orderID]; ok {
		o.Status = s
	}
}

type fakePayments struct {
	mu        sync.Mutex
	intents   int
	verifyErr error
}

func (f *fakePayments) CreateIntent(ctx context.Context, cr Credentials, orderID int64, amount domain.Money) (*domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents++
	return &domain.PaymentIntent{
		KeyID:           "rzp_test_key",
		AmountPaise:     amount.Paise(),
		Currency:        "INR",
		RazorpayOrderID: fmt.Sprintf("order_rzp_%d", orderID),
	}, nil
}

func (f *fakePayments) VerifyPayment(ctx context.Context, cr Credentials, proof domain.PaymentProof) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyErr
}

type fakeAddresses struct {
	saved []domain.Address
}

func (f *fakeAddresses) ListAddresses(ctx context.Context, cr Credentials) ([]domain.Address, error) {
	return f.saved, nil
}

func (f *fakeAddresses) CreateAddress(ctx context.Context, cr Credentials, a domain.Address) (*domain.Address, error) {
	a.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, a)
	return &a, nil
}

// memWorkflows round-trips through JSON like the redis store does, so
// tests catch anything that does not survive serialization.
type memWorkflows struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemWorkflows() *memWorkflows {
	return &memWorkflows{data: map[string][]byte{}}
}

func (m *memWorkflows) Save(ctx context.Context, sessionID string, wf *Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(wf)
	if err != nil {
		return err
	}
	m.data[sessionID] = raw
	return nil
}

func (m *memWorkflows) Load(ctx context.Context, sessionID string) (*Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	var wf Workflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (m *memWorkflows) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

type memIdem struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (m *memIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scope + "/" + key
	if m.locks[k] {
		return false, nil
	}
	m.locks[k] = true
	return true, nil
}

func (m *memIdem) Unlock(ctx context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, scope+"/"+key)
	return nil
}

func (m *memIdem) Remember(ctx context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[scope+"/"+key] = value
	return nil
}

func (m *memIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[scope+"/"+key]
	return v, ok, nil
}

func (m *memIdem) locked(scope, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[scope+"/"+key]
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]*Session
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]*Session{}}
}

func (m *memSessions) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.data[s.ID] = &cp
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memToasts struct {
	mu   sync.Mutex
	data map[string][]Toast
}

func newMemToasts() *memToasts {
	return &memToasts{data: map[string][]Toast{}}
}

func (m *memToasts) Push(ctx context.Context, sessionID string, t Toast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = append(m.data[sessionID], t)
	return nil
}

func (m *memToasts) Drain(ctx context.Context, sessionID string) ([]Toast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.data[sessionID]
	delete(m.data, sessionID)
	return out, nil
}

func (m *memToasts) levels(sessionID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, t := range m.data[sessionID] {
		out = append(out, t.Level)
	}
	return out
}
