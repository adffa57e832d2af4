package validate

import "testing"

func TestQty(t *testing.T) {
	cases := map[string]struct {
		want int
		ok   bool
	}{
		"3": {3, true}, " 12 ": {12, true}, "0": {0, false}, "-2": {0, false}, "abc": {0, false}, "501": {0, false},
	}
	for in, c := range cases {
		got, ok := Qty(in)
		if got != c.want || ok != c.ok {
			t.Fatalf("Qty(%q) = %d,%v want %d,%v", in, got, ok, c.want, c.ok)
		}
	}
}

func TestEngraving(t *testing.T) {
	if s, ok := Engraving("  Merci Awa  "); !ok || s != "Merci Awa" {
		t.Fatalf("got %q %v", s, ok)
	}
	long := make([]rune, MaxEngraving+1)
	for i := range long {
		long[i] = 'é'
	}
	if _, ok := Engraving(string(long)); ok {
		t.Fatal("expected too long")
	}
}

func TestEmailAndID(t *testing.T) {
	if _, ok := Email("awa@example.com"); !ok {
		t.Fatal("valid email rejected")
	}
	if _, ok := Email("awa@"); ok {
		t.Fatal("invalid email accepted")
	}
	if id, ok := ID("42"); !ok || id != 42 {
		t.Fatalf("ID = %d %v", id, ok)
	}
	if _, ok := ID("0"); ok {
		t.Fatal("zero id accepted")
	}
}

func TestDiscountCodeAndDate(t *testing.T) {
	if c, ok := DiscountCode(" noel25 "); !ok || c != "NOEL25" {
		t.Fatalf("got %q %v", c, ok)
	}
	if _, ok := DiscountCode("a b"); ok {
		t.Fatal("code with space accepted")
	}
	if _, ok := Date("2026-13-01"); ok {
		t.Fatal("bad date accepted")
	}
	if d, ok := Date(""); !ok || !d.IsZero() {
		t.Fatal("empty date should be allowed")
	}
}
