package survey

import "testing"

var testSentinels = []string{"b/d", "brak danych"}

func TestKindInt(t *testing.T) {
	if err := KindInt.Validate("42", testSentinels); err != nil {
		t.Errorf("expected 42 to be accepted: %v", err)
	}
	if err := KindInt.Validate("-7", testSentinels); err != nil {
		t.Errorf("expected -7 to be accepted: %v", err)
	}
	if err := KindInt.Validate("abc", testSentinels); err == nil {
		t.Error("expected abc to be rejected")
	}
	if err := KindInt.Validate("b/d", testSentinels); err == nil {
		t.Error("expected sentinel to be rejected for int kind")
	}
}

func TestKindVInt(t *testing.T) {
	if err := KindVInt.Validate("42", testSentinels); err != nil {
		t.Errorf("expected 42 to be accepted: %v", err)
	}
	if err := KindVInt.Validate("b/d", testSentinels); err != nil {
		t.Errorf("expected sentinel to be accepted: %v", err)
	}
	if err := KindVInt.Validate("brak danych", testSentinels); err != nil {
		t.Errorf("expected sentinel to be accepted: %v", err)
	}
	if err := KindVInt.Validate("abc", testSentinels); err == nil {
		t.Error("expected abc to be rejected")
	}
}

func TestKindText(t *testing.T) {
	for _, kind := range []Kind{KindText, KindLText} {
		if err := kind.Validate("anything at all", testSentinels); err != nil {
			t.Errorf("%s: unexpected error: %v", kind, err)
		}
		if err := kind.Validate("", testSentinels); err != nil {
			t.Errorf("%s: unexpected error for empty value: %v", kind, err)
		}
	}
}

func TestKindUnknown(t *testing.T) {
	if err := Kind("float").Validate("1.5", testSentinels); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Ankieta 2016", "ankieta-2016"},
		{"Jakość opieki", "jakosc-opieki"},
		{"  spaced   out  ", "spaced-out"},
		{"UPPER", "upper"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
