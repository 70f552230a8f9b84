package config

import "github.com/omaimashtiew/Tareeqy-public-view/internal/status"

// DefaultTaxonomy is the keyword configuration the classifier runs with.
// Entry order matters: a message carrying keywords for several statuses
// resolves to the first entry listed here, so closed outranks a jam, and a
// jam outranks open.
func DefaultTaxonomy() status.Taxonomy {
	return status.Taxonomy{
		{Label: status.Closed, Keywords: []string{"مغلق", "اغلاق", "إغلاق", "مسكر", "مواجهات"}},
		{Label: status.SevereJam, Keywords: []string{"ازمه", "ازمة", "أزمة", "ازدحام", "كثافة سير", "مزدحم"}},
		{Label: status.Open, Keywords: []string{"مفتوح", "سالك", "مفتوحة"}},
	}
}
