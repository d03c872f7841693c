package cite

import "testing"

func TestParseGroup(t *testing.T) {
	usages, err := ParseGroup("@alice2020, p. 5; @bob2021", 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(usages) != 2 {
		t.Fatalf("usages: got %d", len(usages))
	}
	if usages[0].Key != "alice2020" || usages[0].Locator != "5" || usages[0].Label != "page" {
		t.Errorf("first usage: got %+v", usages[0])
	}
	if usages[1].Key != "bob2021" || usages[1].Locator != "" {
		t.Errorf("second usage: got %+v", usages[1])
	}
}

func TestParseGroup_LocatorForms(t *testing.T) {
	cases := []struct {
		in, label, locator string
	}{
		{"@k, p. 12", "page", "12"},
		{"@k, pp. 12-14", "page", "12-14"},
		{"@k, chap. 3", "chapter", "3"},
		{"@k, sec. 2.1", "section", "2.1"},
		{"@k, 44", "page", "44"},
	}
	for _, tc := range cases {
		usages, err := ParseGroup(tc.in, 0)
		if err != nil {
			t.Errorf("parse %q: %v", tc.in, err)
			continue
		}
		if usages[0].Label != tc.label || usages[0].Locator != tc.locator {
			t.Errorf("%q: got label %q locator %q", tc.in, usages[0].Label, usages[0].Locator)
		}
	}
}

func TestParseGroup_HyphenatedKeys(t *testing.T) {
	usages, err := ParseGroup("@smith-2020-effects", 7)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if usages[0].Key != "smith-2020-effects" || usages[0].Pos != 7 {
		t.Errorf("got %+v", usages[0])
	}
}

func TestParseGroup_Invalid(t *testing.T) {
	for _, in := range []string{"", "no citations here", "@"} {
		if _, err := ParseGroup(in, 0); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestFormatGroup(t *testing.T) {
	got := FormatGroup([]Usage{
		{Key: "alice2020", Locator: "5", Label: "page"},
		{Key: "bob2021"},
	})
	want := "[@alice2020, p. 5; @bob2021]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	const src = "[@alice2020, p. 5; @bob2021, chap. 2]"
	usages, err := ParseGroup(src[1:len(src)-1], 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatGroup(usages); got != src {
		t.Errorf("round trip: got %q, want %q", got, src)
	}
}
