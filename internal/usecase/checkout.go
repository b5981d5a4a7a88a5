package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/google/uuid"
)

// Stage is the checkout workflow state. The three selection stages are
// navigable back and forth; SUBMITTING is entered only from REVIEW and
// leaves only for DONE, FAILED, or (widget dismissed) back to REVIEW.
type Stage string

const (
	StageAddress    Stage = "ADDRESS"
	StagePayment    Stage = "PAYMENT"
	StageReview     Stage = "REVIEW"
	StageSubmitting Stage = "SUBMITTING"
	StageFailed     Stage = "FAILED"
	StageDone       Stage = "DONE"
)

// SubmitStep records how far into the non-transactional submission
// sequence a workflow got, so a retry resumes instead of repeating.
type SubmitStep string

const (
	StepCreatingOrder   SubmitStep = "CREATING_ORDER"
	StepCreatingItems   SubmitStep = "CREATING_ITEMS"
	StepAwaitingPayment SubmitStep = "AWAITING_PAYMENT"
	StepClearingCart    SubmitStep = "CLEARING_CART"
)

// Workflow is the per-session checkout state machine, serialized into the
// workflow store between requests.
type Workflow struct {
	SessionID      string               `json:"session_id"`
	IdempotencyKey string               `json:"idempotency_key"`
	Stage          Stage                `json:"stage"`
	Step           SubmitStep           `json:"step,omitempty"`
	Address        *domain.Address      `json:"address,omitempty"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method,omitempty"`
	Lines          []domain.CartLine    `json:"lines,omitempty"`
	Totals         domain.CartTotals    `json:"totals,omitempty"`
	OrderID        int64                `json:"order_id,omitempty"`
	OrderNumber    string               `json:"order_number,omitempty"`
	ItemsCreated   int                  `json:"items_created"`
	PaymentPaid    bool                 `json:"payment_paid"`
	FailReason     string               `json:"fail_reason,omitempty"`
}

var (
	ErrNoWorkflow         = errors.New("no checkout in progress")
	ErrBadStage           = errors.New("operation not allowed in current checkout stage")
	ErrNoAddress          = errors.New("no delivery address selected")
	ErrNoPayment          = errors.New("no payment method selected")
	ErrUnknownAddress     = errors.New("address does not belong to this account")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrSubmitInFlight     = errors.New("submission already in flight")
	ErrNotAwaitingPayment = errors.New("no payment awaiting confirmation")
)

type Checkout struct {
	cart      CartGateway
	orders    OrderGateway
	payments  PaymentGateway
	addresses AddressGateway
	wfs       WorkflowStore
	idem      IdempotencyStore
	notify    *Notifier
}

func NewCheckout(cart CartGateway, orders OrderGateway, payments PaymentGateway,
	addresses AddressGateway, wfs WorkflowStore, idem IdempotencyStore, notify *Notifier) *Checkout {
	return &Checkout{
		cart:      cart,
		orders:    orders,
		payments:  payments,
		addresses: addresses,
		wfs:       wfs,
		idem:      idem,
		notify:    notify,
	}
}

// SubmitResult is what a submission (or resumption) produced: either a
// finished workflow, or a payment intent the caller must hand to the
// widget before confirming.
type SubmitResult struct {
	Workflow        *Workflow             `json:"workflow"`
	AwaitingPayment bool                  `json:"awaiting_payment"`
	Intent          *domain.PaymentIntent `json:"intent,omitempty"`
}

// Begin starts a fresh workflow for the session, replacing any previous
// one. The idempotency key is minted here, before any upstream write, and
// rides on every request of the eventual submission sequence.
func (uc *Checkout) Begin(ctx context.Context, cr Credentials) (*Workflow, error) {
	wf := &Workflow{
		SessionID:      cr.SessionID,
		IdempotencyKey: uuid.NewString(),
		Stage:          StageAddress,
		PaymentMethod:  domain.PayRazorpay, // default, per the payment step
	}
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		return nil, fmt.Errorf("save workflow: %w", err)
	}
	return wf, nil
}

func (uc *Checkout) Current(ctx context.Context, cr Credentials) (*Workflow, error) {
	wf, err := uc.wfs.Load(ctx, cr.SessionID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, ErrNoWorkflow
	}
	return wf, nil
}

// SelectAddress attaches one of the user's saved addresses and advances
// ADDRESS -> PAYMENT. The address is validated against the saved list; the
// workflow keeps a value copy, never a reference.
func (uc *Checkout) SelectAddress(ctx context.Context, cr Credentials, addressID int64) (*Workflow, error) {
	wf, err := uc.selectable(ctx, cr)
	if err != nil {
		return nil, err
	}
	saved, err := uc.addresses.ListAddresses(ctx, cr)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	var found *domain.Address
	for i := range saved {
		if saved[i].ID == addressID {
			found = &saved[i]
			break
		}
	}
	if found == nil {
		return nil, ErrUnknownAddress
	}
	addr := *found
	wf.Address = &addr
	if wf.Stage == StageAddress {
		wf.Stage = StagePayment
	}
	return wf, uc.wfs.Save(ctx, cr.SessionID, wf)
}

// SelectPayment records the method and advances PAYMENT -> REVIEW. The
// review stage is unreachable without both an address and a method.
func (uc *Checkout) SelectPayment(ctx context.Context, cr Credentials, method domain.PaymentMethod) (*Workflow, error) {
	wf, err := uc.selectable(ctx, cr)
	if err != nil {
		return nil, err
	}
	if wf.Address == nil {
		return nil, ErrNoAddress
	}
	if !method.Valid() {
		return nil, ErrNoPayment
	}
	wf.PaymentMethod = method
	if wf.Stage == StagePayment {
		wf.Stage = StageReview
	}
	return wf, uc.wfs.Save(ctx, cr.SessionID, wf)
}

// Back navigates REVIEW -> PAYMENT -> ADDRESS.
func (uc *Checkout) Back(ctx context.Context, cr Credentials) (*Workflow, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	switch wf.Stage {
	case StageReview:
		wf.Stage = StagePayment
	case StagePayment:
		wf.Stage = StageAddress
	default:
		return nil, ErrBadStage
	}
	return wf, uc.wfs.Save(ctx, cr.SessionID, wf)
}

// selectable loads the workflow for the stages where selections may still
// change.
func (uc *Checkout) selectable(ctx context.Context, cr Credentials) (*Workflow, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	switch wf.Stage {
	case StageAddress, StagePayment, StageReview:
		return wf, nil
	default:
		return nil, ErrBadStage
	}
}

// Submit runs the submission sequence from REVIEW. Promo state comes from
// the session. Re-entrancy is guarded by an idempotency lock keyed on the
// workflow, so a double-click cannot start two sequences.
func (uc *Checkout) Submit(ctx context.Context, cr Credentials, promoCode string, promoPct int) (*SubmitResult, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	if wf.Stage != StageReview {
		return nil, ErrBadStage
	}
	if wf.Address == nil {
		return nil, ErrNoAddress
	}
	if !wf.PaymentMethod.Valid() {
		return nil, ErrNoPayment
	}

	ok, err := uc.idem.TryLock(ctx, cr.SessionID, wf.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency lock: %w", err)
	}
	if !ok {
		return nil, ErrSubmitInFlight
	}

	// Snapshot the cart once; deletes later target exactly these lines.
	// Resubmission after a dismissed payment keeps the original snapshot.
	if len(wf.Lines) == 0 {
		lines, err := uc.cart.ListCartLines(ctx, cr)
		if err != nil {
			_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
			return nil, fmt.Errorf("list cart: %w", err)
		}
		if len(lines) == 0 {
			_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
			return nil, ErrEmptyCart
		}
		wf.Lines = lines
		wf.Totals = domain.ComputeTotals(lines, domain.CartFee(lines), promoCode, promoPct)
	}

	wf.Stage = StageSubmitting
	if wf.Step == "" {
		wf.Step = StepCreatingOrder
	}
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
		return nil, fmt.Errorf("save workflow: %w", err)
	}
	return uc.resume(ctx, cr, wf)
}

// resume drives the sequence from the workflow's recorded progress.
// The sequence is deliberately not transactional — the upstream offers no
// transaction across resources — but every step is idempotent under the
// workflow key, so repeating it after a partial failure is safe.
func (uc *Checkout) resume(ctx context.Context, cr Credentials, wf *Workflow) (*SubmitResult, error) {
	log := logging.FromCtx(ctx)

	// 1. Order record. A previous attempt may already have created it.
	if wf.OrderID == 0 {
		if v, ok, _ := uc.idem.Recall(ctx, cr.SessionID, wf.IdempotencyKey); ok {
			wf.OrderID, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	if wf.OrderID == 0 {
		order, err := uc.orders.CreateOrder(ctx, cr, wf.IdempotencyKey, OrderDraft{
			RestaurantID:  wf.Lines[0].RestaurantID,
			Totals:        wf.Totals,
			Address:       *wf.Address,
			PaymentMethod: wf.PaymentMethod,
		})
		if err != nil {
			return nil, uc.fail(ctx, cr, wf, fmt.Errorf("create order: %w", err))
		}
		wf.OrderID = order.ID
		wf.OrderNumber = order.OrderNumber
		wf.Step = StepCreatingItems
		_ = uc.idem.Remember(ctx, cr.SessionID, wf.IdempotencyKey, strconv.FormatInt(order.ID, 10))
		if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
			log.Warn("workflow save failed mid-submit", "error", err)
		}
	}

	// 2. One order item per snapshotted cart line. A failure here strands
	// the order with fewer items than the cart had; the workflow parks in
	// FAILED holding the order id rather than pretending to roll back.
	for wf.ItemsCreated < len(wf.Lines) {
		l := wf.Lines[wf.ItemsCreated]
		itemKey := fmt.Sprintf("%s/item/%d", wf.IdempotencyKey, l.ID)
		err := uc.orders.CreateOrderItem(ctx, cr, itemKey, OrderItemDraft{
			OrderID:    wf.OrderID,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
		if err != nil {
			return nil, uc.fail(ctx, cr, wf, fmt.Errorf("create item for line %d: %w", l.ID, err))
		}
		wf.ItemsCreated++
		if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
			log.Warn("workflow save failed mid-submit", "error", err)
		}
	}

	// 3. Online payment suspends here until the widget calls back.
	if wf.PaymentMethod == domain.PayRazorpay && !wf.PaymentPaid {
		intent, err := uc.payments.CreateIntent(ctx, cr, wf.OrderID, wf.Totals.Total)
		if err != nil {
			return nil, uc.fail(ctx, cr, wf, fmt.Errorf("create payment intent: %w", err))
		}
		wf.Step = StepAwaitingPayment
		if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
			return nil, uc.fail(ctx, cr, wf, fmt.Errorf("save workflow: %w", err))
		}
		return &SubmitResult{Workflow: wf, AwaitingPayment: true, Intent: intent}, nil
	}

	return uc.finish(ctx, cr, wf)
}

// ConfirmPayment takes the widget's success callback: submit the proof to
// the verification endpoint, then complete the workflow. Verification
// failure leaves the order created and unpaid; there is no automatic
// retry.
func (uc *Checkout) ConfirmPayment(ctx context.Context, cr Credentials, proof domain.PaymentProof) (*SubmitResult, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	if wf.Stage != StageSubmitting || wf.Step != StepAwaitingPayment {
		return nil, ErrNotAwaitingPayment
	}
	if err := uc.payments.VerifyPayment(ctx, cr, proof); err != nil {
		return nil, uc.fail(ctx, cr, wf, fmt.Errorf("verify payment: %w", err))
	}
	wf.PaymentPaid = true
	return uc.finish(ctx, cr, wf)
}

// DismissPayment handles the widget's dismiss callback: the submission
// flag clears and the user is back on review, with an already-created,
// unpaid order upstream. Resubmitting reuses the same workflow key, so the
// order is resumed rather than duplicated.
func (uc *Checkout) DismissPayment(ctx context.Context, cr Credentials) (*Workflow, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	if wf.Stage != StageSubmitting || wf.Step != StepAwaitingPayment {
		return nil, ErrNotAwaitingPayment
	}
	wf.Stage = StageReview
	wf.Step = ""
	_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		return nil, fmt.Errorf("save workflow: %w", err)
	}
	uc.notify.Info(ctx, cr.SessionID, "Payment cancelled. Your order has not been paid.")
	logging.FromCtx(ctx).Warn("payment widget dismissed with order created",
		"order_id", wf.OrderID, "session", cr.SessionID)
	return wf, nil
}

// Retry re-runs the sequence of a FAILED workflow under the same
// idempotency key.
func (uc *Checkout) Retry(ctx context.Context, cr Credentials) (*SubmitResult, error) {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return nil, err
	}
	if wf.Stage != StageFailed {
		return nil, ErrBadStage
	}
	ok, err := uc.idem.TryLock(ctx, cr.SessionID, wf.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency lock: %w", err)
	}
	if !ok {
		return nil, ErrSubmitInFlight
	}
	wf.Stage = StageSubmitting
	wf.FailReason = ""
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
		return nil, fmt.Errorf("save workflow: %w", err)
	}
	return uc.resume(ctx, cr, wf)
}

// Abandon drops a FAILED workflow. Whether the stranded upstream order
// should be reconciled is an open platform question; the gateway only
// logs it.
func (uc *Checkout) Abandon(ctx context.Context, cr Credentials) error {
	wf, err := uc.Current(ctx, cr)
	if err != nil {
		return err
	}
	if wf.Stage != StageFailed && wf.Stage != StageReview {
		return ErrBadStage
	}
	if wf.OrderID != 0 && wf.Stage == StageFailed {
		logging.FromCtx(ctx).Warn("abandoning checkout with stranded order",
			"order_id", wf.OrderID, "session", cr.SessionID)
	}
	_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
	return uc.wfs.Clear(ctx, cr.SessionID)
}

// finish clears the cart and completes the workflow. Each snapshotted
// line is deleted exactly once, in a parallel fan-out; delete failures
// leave stale lines for the next cart view to surface, they do not fail
// the order.
func (uc *Checkout) finish(ctx context.Context, cr Credentials, wf *Workflow) (*SubmitResult, error) {
	log := logging.FromCtx(ctx)
	wf.Step = StepClearingCart
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		log.Warn("workflow save failed mid-submit", "error", err)
	}

	var wg sync.WaitGroup
	for _, l := range wf.Lines {
		wg.Add(1)
		go func(l domain.CartLine) {
			defer wg.Done()
			if err := uc.cart.DeleteCartLine(ctx, cr, l.ID); err != nil {
				log.Warn("cart line not cleared after order", "line_id", l.ID, "error", err)
			}
		}(l)
	}
	wg.Wait()

	wf.Stage = StageDone
	wf.Step = ""
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		log.Warn("workflow save failed at completion", "error", err)
	}
	_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
	uc.notify.Success(ctx, cr.SessionID, fmt.Sprintf("Order %s placed successfully!", wf.OrderNumber))
	return &SubmitResult{Workflow: wf}, nil
}

func (uc *Checkout) fail(ctx context.Context, cr Credentials, wf *Workflow, cause error) error {
	wf.Stage = StageFailed
	wf.Step = ""
	wf.FailReason = cause.Error()
	if err := uc.wfs.Save(ctx, cr.SessionID, wf); err != nil {
		logging.FromCtx(ctx).Error("workflow save failed while recording failure", "error", err)
	}
	_ = uc.idem.Unlock(ctx, cr.SessionID, wf.IdempotencyKey)
	uc.notify.Error(ctx, cr.SessionID, "Could not place your order. You can retry or abandon the checkout.")
	logging.FromCtx(ctx).Error("checkout submission failed",
		"session", cr.SessionID, "order_id", wf.OrderID,
		"items_created", wf.ItemsCreated, "error", cause)
	return cause
}
