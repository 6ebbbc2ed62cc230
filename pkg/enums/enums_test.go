package enums

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "", want: RoleUser},
		{in: "user", want: RoleUser},
		{in: " ADMIN ", want: RoleAdmin},
		{in: "owner", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRoleScanAndValue(t *testing.T) {
	var r Role
	if err := r.Scan([]byte("admin")); err != nil || !r.IsAdmin() {
		t.Fatalf("expected admin from bytes, got %q err=%v", r, err)
	}
	if err := r.Scan(nil); err != nil || r != RoleUser {
		t.Fatalf("expected nil to default to user, got %q err=%v", r, err)
	}
	if err := r.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if _, err := Role("root").Value(); err == nil {
		t.Fatal("expected invalid role to fail Value")
	}
}

func TestBadgePrecedence(t *testing.T) {
	if got := BadgeFor(true, true, true); got != ProductBadgeNew {
		t.Fatalf("new should win, got %q", got)
	}
	if got := BadgeFor(false, true, true); got != ProductBadgeSale {
		t.Fatalf("sale should beat best seller, got %q", got)
	}
	if got := BadgeFor(false, false, true); got != ProductBadgeBestSeller {
		t.Fatalf("expected best seller, got %q", got)
	}
	if got := BadgeFor(false, false, false); got != ProductBadgeNone {
		t.Fatalf("expected no badge, got %q", got)
	}
	if _, err := ParseProductBadge("sale"); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
}
