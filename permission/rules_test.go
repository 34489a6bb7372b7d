package permission

import "testing"

func TestRulesRequiredDeduplicatesAndSorts(t *testing.T) {
	r := Rules{
		"manager": {"ORDERS_EDIT", "ORDERS_VIEW"},
		"clerk":   {"ORDERS_VIEW", ""},
	}

	got := r.Required("BACKOFFICE_LOGIN")
	want := []string{"BACKOFFICE_LOGIN", "ORDERS_EDIT", "ORDERS_VIEW"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRulesRequiredGateAlreadyListed(t *testing.T) {
	r := Rules{"manager": {"BACKOFFICE_LOGIN"}}

	got := r.Required("BACKOFFICE_LOGIN")
	if len(got) != 1 || got[0] != "BACKOFFICE_LOGIN" {
		t.Fatalf("expected single entry, got %v", got)
	}
}

func TestRulesRequiredEmpty(t *testing.T) {
	if got := (Rules{}).Required(""); len(got) != 0 {
		t.Fatalf("expected empty allow-list, got %v", got)
	}
	if got := (Rules{}).Required("BACKOFFICE_LOGIN"); len(got) != 1 {
		t.Fatalf("expected gate-only allow-list, got %v", got)
	}
}
