package theme

import (
	"strings"
	"testing"
)

func TestStatusIcon(t *testing.T) {
	th := Default()

	tests := []struct {
		status string
		icon   string
	}{
		{"DELIVERED", th.Icons.Success},
		{"paid", th.Icons.Success},
		{"active", th.Icons.Success},
		{"SHIPPING", th.Icons.Shipping},
		{"PENDING", th.Icons.Pending},
		{"CANCELLED", th.Icons.Error},
		{"blocked", th.Icons.Blocked},
		{"whatever", th.Icons.Pending},
	}

	for _, tt := range tests {
		icon, _ := th.StatusIcon(tt.status)
		if icon != tt.icon {
			t.Errorf("StatusIcon(%q) = %q, want %q", tt.status, icon, tt.icon)
		}
	}
}

func TestDivider(t *testing.T) {
	th := Default()
	if th.Divider(0) != "" {
		t.Error("zero width divider should be empty")
	}
	if !strings.Contains(th.Divider(5), "─────") {
		t.Error("divider should repeat the rule character")
	}
}
