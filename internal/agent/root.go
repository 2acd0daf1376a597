package agent

import (
	"context"
	"sync"
	"time"

	"netscope-copilot/internal/security"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// User-facing texts for faults that must never escape as raw errors.
const (
	refusalMissingTenant = "This request cannot be processed: no organization is associated with it."
	refusalNoDelegation  = "I could not determine how to help with that request."
	refusalInternal      = "Something went wrong while handling the request. Please try again."
)

// Result is the entry point's reply shape.
type Result struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Result types.
const (
	ResultTypeAnswer  = "root_router_result"
	ResultTypeRefusal = "refusal"
	ResultTypeError   = "error"
)

// TurnStore persists completed turns. Best effort only.
type TurnStore interface {
	StoreTurn(ctx context.Context, userID, conversationID, role, content string) error
}

// persistTimeout bounds the detached persistence write; it is off the
// request's critical path and must not hold resources indefinitely.
const persistTimeout = 10 * time.Second

// RootRouter is the top-level composite responder. It owns the conversation
// turn: after the chosen child's Outcome is final it schedules exactly one
// best-effort persistence write (user line, assistant line) whose failure
// is logged and never surfaced.
type RootRouter struct {
	router *Router
	store  TurnStore
	logger *zap.Logger

	// persistWG lets tests wait for the detached persistence write.
	persistWG sync.WaitGroup
}

// NewRootRouter assembles the full responder tree from its parts.
func NewRootRouter(classify Classifier, observability Responder, alerting Responder, store TurnStore) *RootRouter {
	return &RootRouter{
		router: NewRouter("root_router", classify, "", observability, alerting),
		store:  store,
		logger: logger.Get(),
	}
}

// Name returns the root router's identifier.
func (r *RootRouter) Name() string {
	return r.router.Name()
}

// Respond delegates to one child and, on success, schedules the turn
// persistence. The Outcome is already finalized when persistence starts.
func (r *RootRouter) Respond(ctx context.Context, request string, sec security.Context) (Outcome, error) {
	outcome, err := r.router.Respond(ctx, request, sec)
	if err != nil {
		return Outcome{}, err
	}

	r.schedulePersist(sec, request, outcome.Text)
	return outcome, nil
}

// schedulePersist runs the write-behind for one completed turn: at most
// once per turn, detached from the caller's context, never retried.
func (r *RootRouter) schedulePersist(sec security.Context, request, answer string) {
	if r.store == nil {
		return
	}

	r.persistWG.Add(1)
	go func() {
		defer r.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := r.store.StoreTurn(ctx, sec.UserID, sec.ConversationID, "user", request); err != nil {
			fault := errors.NewPersistenceFault(sec.ConversationID, err)
			r.logger.Warn("Failed to persist user turn", zap.Error(fault))
			return
		}
		if err := r.store.StoreTurn(ctx, sec.UserID, sec.ConversationID, "assistant", answer); err != nil {
			fault := errors.NewPersistenceFault(sec.ConversationID, err)
			r.logger.Warn("Failed to persist assistant turn", zap.Error(fault))
		}
	}()
}

// HandleRequest is the only call into the core from any UI or CLI. It
// attaches the security context and converts every fault into a textual
// result: no raw error crosses this boundary.
func (r *RootRouter) HandleRequest(ctx context.Context, tenantID, roleID, userID, conversationID, deviceID, requestText string) Result {
	sec, err := security.Attach(tenantID, roleID, userID, conversationID, deviceID)
	if err != nil {
		r.logger.Warn("Request refused",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return Result{Type: ResultTypeRefusal, Content: refusalMissingTenant}
	}

	outcome, err := r.Respond(ctx, requestText, sec)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeRouting) {
			r.logger.Warn("Delegation failed",
				zap.String("tenant_id", sec.TenantID),
				zap.Error(err),
			)
			return Result{Type: ResultTypeRefusal, Content: refusalNoDelegation}
		}
		r.logger.Error("Request failed",
			zap.String("tenant_id", sec.TenantID),
			zap.Error(err),
		)
		return Result{Type: ResultTypeError, Content: refusalInternal}
	}

	return Result{Type: ResultTypeAnswer, Content: outcome.Text}
}
