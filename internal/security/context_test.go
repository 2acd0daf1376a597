package security

import (
	"testing"

	"netscope-copilot/pkg/errors"
)

func TestAttachRequiresTenant(t *testing.T) {
	_, err := Attach("", "role-xyz", "user-999", "conv-1", "")
	if err == nil {
		t.Fatal("expected an error for a missing tenant id")
	}
	if !errors.IsMissingTenant(err) {
		t.Fatalf("expected a missing-tenant error, got %v", err)
	}
}

func TestAttachPopulatesContext(t *testing.T) {
	sec, err := Attach("org-123", "role-xyz", "user-999", "conv-1", "dev-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec.TenantID != "org-123" || sec.RoleID != "role-xyz" || sec.UserID != "user-999" {
		t.Fatalf("context fields not populated: %+v", sec)
	}
	if sec.ConversationID != "conv-1" {
		t.Fatalf("conversation id not carried: %+v", sec)
	}
	if !sec.HasDevice() || sec.DeviceID != "dev-7" {
		t.Fatalf("device scope not carried: %+v", sec)
	}
}

func TestAttachOptionalDevice(t *testing.T) {
	sec, err := Attach("org-123", "role-xyz", "user-999", "conv-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec.HasDevice() {
		t.Fatal("empty device id must not set a device scope")
	}
}
