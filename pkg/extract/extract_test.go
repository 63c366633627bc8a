package extract

import (
	"errors"
	"testing"

	"github.com/querylens-ai/querylens/pkg/models"
)

func TestParseDirect(t *testing.T) {
	raw := `{"item_type": "dining table", "material": "metal", "color": "blue"}`
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := models.ParsedQuery{ItemType: "dining table", Material: "metal", Color: "blue"}
	if pq != want {
		t.Errorf("expected %+v, got %+v", want, pq)
	}
}

func TestParseDirectEmptyObject(t *testing.T) {
	pq, err := Parse(`{}`)
	if err != nil {
		t.Fatal(err)
	}
	if !pq.IsZero() {
		t.Errorf("expected empty record, got %+v", pq)
	}
}

func TestParseWrappedInProse(t *testing.T) {
	raw := `Sure! Here is the answer: {"item_type": "sofa", "material": "leather"}`
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := models.ParsedQuery{ItemType: "sofa", Material: "leather"}
	if pq != want {
		t.Errorf("expected %+v, got %+v", want, pq)
	}
}

func TestProseRecoveryMatchesDirect(t *testing.T) {
	obj := `{"item_type": "bookshelf", "material": "wooden"}`
	direct, err := Parse(obj)
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := Parse("The parsed query is:\n" + obj + "\nLet me know if you need more.")
	if err != nil {
		t.Fatal(err)
	}
	if direct != wrapped {
		t.Errorf("prose-wrapped object should parse identically: %+v vs %+v", direct, wrapped)
	}
}

func TestParseFieldFragments(t *testing.T) {
	raw := "I think the item_type: \"accent table\" and the material is material: metal, color: null"
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pq.ItemType != "accent table" {
		t.Errorf("expected accent table, got %q", pq.ItemType)
	}
	if pq.Material != "metal" {
		t.Errorf("expected metal, got %q", pq.Material)
	}
	if pq.Color != "" {
		t.Errorf("null color must be absent, got %q", pq.Color)
	}
}

func TestParseTruncatedJSON(t *testing.T) {
	// Unterminated object: strategies 1 and 2 fail, fragments recover.
	raw := `{"item_type": "sofa", "material": "leather"`
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pq.ItemType != "sofa" || pq.Material != "leather" {
		t.Errorf("fragment recovery failed: %+v", pq)
	}
}

func TestNullAndEmptyValuesAbsent(t *testing.T) {
	raw := `{"item_type": "bookshelf", "material": "wooden", "color": null}`
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pq.Color != "" {
		t.Errorf("null must map to absent, got %q", pq.Color)
	}

	raw = `{"item_type": "bed", "material": ""}`
	pq, err = Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pq.Material != "" {
		t.Errorf("empty string must map to absent, got %q", pq.Material)
	}
}

func TestParseFailure(t *testing.T) {
	raw := "I could not understand the question, sorry."
	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected extraction failure")
	}
	var extErr *Error
	if !errors.As(err, &extErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if extErr.RawText != raw {
		t.Errorf("error must carry the raw text, got %q", extErr.RawText)
	}
}

func TestParseQuotedValues(t *testing.T) {
	raw := `{"item_type": " 'dining table' ", "color": "\"blue\""}`
	pq, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pq.ItemType != "dining table" {
		t.Errorf("expected surrounding quotes stripped, got %q", pq.ItemType)
	}
	if pq.Color != "blue" {
		t.Errorf("expected surrounding quotes stripped, got %q", pq.Color)
	}
}
