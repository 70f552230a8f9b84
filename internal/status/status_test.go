package status

import "testing"

func testTaxonomy() Taxonomy {
	return Taxonomy{
		{Label: Closed, Keywords: []string{"مغلق", "مواجهات"}},
		{Label: SevereJam, Keywords: []string{"ازمه", "كثافه"}},
		{Label: Open, Keywords: []string{"مفتوح", "سالك"}},
	}
}

func TestClassify(t *testing.T) {
	tax := testTaxonomy()
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"open keyword", "الطريق سالك", Open},
		{"closed keyword", "الحاجز مغلق", Closed},
		{"jam keyword", "ازمه خانقه على الحاجز", SevereJam},
		{"no keyword", "صباح الخير", Unknown},
		{"empty text", "", Unknown},
		{"latin text lowercased", "ROAD IS CLEAR", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text, tax); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// A message matching several status keyword sets resolves to whichever entry
// is listed first in the taxonomy. This precedence is a documented contract.
func TestClassifyPrecedence(t *testing.T) {
	tax := Taxonomy{
		{Label: Closed, Keywords: []string{"مغلق"}},
		{Label: Open, Keywords: []string{"سالك"}},
	}
	text := "الحاجز مغلق وكان سالك قبل ساعة"
	if got := Classify(text, tax); got != Closed {
		t.Errorf("Classify(%q) = %q, want %q (closed listed before open)", text, got, Closed)
	}

	reversed := Taxonomy{tax[1], tax[0]}
	if got := Classify(text, reversed); got != Open {
		t.Errorf("Classify(%q) with reversed taxonomy = %q, want %q", text, got, Open)
	}
}
