package usecase

import (
	"context"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/google/uuid"
)

// Notifier is the toast queue: ephemeral per-session messages the browser
// drains on its next poll. Pushes are best-effort; losing a toast is
// never worth failing the action that produced it.
type Notifier struct {
	store ToastStore
}

func NewNotifier(store ToastStore) *Notifier {
	return &Notifier{store: store}
}

func (n *Notifier) Success(ctx context.Context, sessionID, text string) {
	n.push(ctx, sessionID, "success", text)
}

func (n *Notifier) Error(ctx context.Context, sessionID, text string) {
	n.push(ctx, sessionID, "error", text)
}

func (n *Notifier) Info(ctx context.Context, sessionID, text string) {
	n.push(ctx, sessionID, "info", text)
}

func (n *Notifier) push(ctx context.Context, sessionID, level, text string) {
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.store.Push(ctx, sessionID, t); err != nil {
		logging.FromCtx(ctx).Warn("toast dropped", "session", sessionID, "error", err)
	}
}

// Drain returns and removes the session's pending toasts.
func (n *Notifier) Drain(ctx context.Context, sessionID string) ([]Toast, error) {
	return n.store.Drain(ctx, sessionID)
}
