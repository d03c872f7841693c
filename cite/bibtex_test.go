package cite

import (
	"strings"
	"testing"
)

func TestRenderBibTeX(t *testing.T) {
	store := NewStore()
	_ = store.Add(&Entry{
		Key:     "bearak-2020-unintended",
		Title:   "Unintended pregnancy and abortion",
		Authors: []Author{{Family: "Bearak", Given: "Jonathan"}, {Family: "Popinchalk", Given: "Anna"}},
		Year:    "2020",
		Journal: "Lancet Global Health",
		Volume:  "8",
		Pages:   "e1152-e1161",
		DOI:     "10.1016/S2214-109X(20)30315-6",
	})
	_ = store.Add(&Entry{
		Key:   "who-2021-report",
		Title: "Abortion care guideline",
		Year:  "2021",
	})

	out := RenderBibTeX(store)

	if !strings.Contains(out, "@article{bearak-2020-unintended,") {
		t.Errorf("journal entry should be @article:\n%s", out)
	}
	if !strings.Contains(out, "@misc{who-2021-report,") {
		t.Errorf("entry without journal/volume should be @misc:\n%s", out)
	}
	if !strings.Contains(out, "author = {Bearak, Jonathan and Popinchalk, Anna},") {
		t.Errorf("author list:\n%s", out)
	}
	if !strings.Contains(out, "title = {{Unintended pregnancy and abortion}},") {
		t.Errorf("double-braced title:\n%s", out)
	}
}

func TestBibTeXRoundTrip(t *testing.T) {
	store := NewStore()
	_ = store.Add(&Entry{
		Key:         "alice-2020-study",
		Title:       "A study",
		Authors:     []Author{{Family: "Alice", Given: "A."}},
		Year:        "2020",
		Journal:     "Nature",
		ExternalKey: "AAAA1111",
		ExternalURI: "http://zotero.org/users/1/items/AAAA1111",
		CSL: map[string]any{
			"type":  "article-journal",
			"title": "A study",
		},
	})

	parsed, err := ParseBibTeX(strings.NewReader(RenderBibTeX(store)))
	if err != nil {
		t.Fatalf("parse rendered bibtex: %v", err)
	}

	e := parsed.Get("alice-2020-study")
	if e == nil {
		t.Fatal("entry lost in round trip")
	}
	if e.Title != "A study" || e.Year != "2020" || e.Journal != "Nature" {
		t.Errorf("fields: got %+v", e)
	}
	if len(e.Authors) != 1 || e.Authors[0].Family != "Alice" || e.Authors[0].Given != "A." {
		t.Errorf("authors: got %+v", e.Authors)
	}
	// Provenance travels through the zotero-data field.
	if e.ExternalKey != "AAAA1111" || !e.Provenanced() {
		t.Errorf("provenance lost: %+v", e)
	}
	if e.CSL["title"] != "A study" {
		t.Errorf("csl item data lost: %v", e.CSL)
	}
}

func TestParseBibTeX_PlainFile(t *testing.T) {
	const src = `@article{smith-2020-effects,
  author = {Smith, Jane},
  title = {{The Effects of X}},
  journal = {Science},
  year = {2020},
}
`
	store, err := ParseBibTeX(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := store.Get("smith-2020-effects")
	if e == nil {
		t.Fatal("missing entry")
	}
	if e.Provenanced() {
		t.Error("plain entry must not carry provenance")
	}
	if e.Title != "The Effects of X" {
		t.Errorf("title: got %q", e.Title)
	}
}
