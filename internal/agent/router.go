package agent

import (
	"context"

	"netscope-copilot/internal/security"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// Router is a composite responder: one classification step, then exactly
// one child invocation. There is no parallel fan-out and no classification
// retry; the turn is over the moment one child has produced an Outcome.
type Router struct {
	name     string
	classify Classifier
	children map[string]Responder
	fallback string // child used on ambiguous/unmatched classification; empty means fail
	logger   *zap.Logger
}

// NewRouter builds a composite responder over a fixed set of children,
// keyed by their names. fallback names the tie-break child; leave it empty
// to surface a DelegationError instead.
func NewRouter(name string, classify Classifier, fallback string, children ...Responder) *Router {
	byName := make(map[string]Responder, len(children))
	for _, child := range children {
		byName[child.Name()] = child
	}
	return &Router{
		name:     name,
		classify: classify,
		children: byName,
		fallback: fallback,
		logger:   logger.Get(),
	}
}

// Name returns the router's identifier.
func (r *Router) Name() string {
	return r.name
}

// Respond classifies the request, delegates to the selected child with the
// same security context, and returns the child's Outcome unchanged.
func (r *Router) Respond(ctx context.Context, request string, sec security.Context) (Outcome, error) {
	childID, err := r.classify(ctx, request)
	if err != nil {
		return Outcome{}, errors.NewDelegationError(r.name, "classification failed: "+err.Error())
	}

	child, ok := r.children[childID]
	if !ok {
		if r.fallback == "" {
			return Outcome{}, errors.NewDelegationError(r.name, "no child matched the request")
		}
		child = r.children[r.fallback]
		childID = r.fallback
	}

	r.logger.Debug("Request delegated",
		zap.String("router", r.name),
		zap.String("child", childID),
		zap.String("tenant_id", sec.TenantID),
	)

	return child.Respond(ctx, request, sec)
}
