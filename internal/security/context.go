// Package security holds the immutable per-request security context.
//
// The tenant id is attached exactly once, at the entry point, and is never
// sourced from free-form request text. Everything below the router tree
// trusts the context instead of re-validating arguments.
package security

import (
	"netscope-copilot/pkg/errors"
)

// Context carries the request's identity and scope. It is passed by value
// through the whole responder tree; there are no setters.
type Context struct {
	TenantID       string
	RoleID         string
	UserID         string
	ConversationID string
	DeviceID       string // optional device scope, empty when absent
}

// Attach validates the request identity and builds the context. This is the
// single enforcement point for the tenant requirement: an empty tenant id
// fails closed before any store access happens.
func Attach(tenantID, roleID, userID, conversationID, deviceID string) (Context, error) {
	if tenantID == "" {
		return Context{}, errors.NewMissingTenant()
	}
	return Context{
		TenantID:       tenantID,
		RoleID:         roleID,
		UserID:         userID,
		ConversationID: conversationID,
		DeviceID:       deviceID,
	}, nil
}

// HasDevice reports whether the request is scoped to a single device.
func (c Context) HasDevice() bool {
	return c.DeviceID != ""
}
