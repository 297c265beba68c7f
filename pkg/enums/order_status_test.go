package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("completed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if OrderStatus("COMPLETED").IsValid() {
		t.Fatal("status values are case sensitive")
	}
}
