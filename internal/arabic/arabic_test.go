package arabic

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"plain name untouched", "دير شرف", "دير شرف"},
		{"definite article stripped", "العيزرية", "عيزريه"},
		{"conjunction plus article stripped", "والنفق", "نفق"},
		{"taa marbuta folded", "زعترة", "زعتره"},
		{"alef hamza folded", "أريحا", "اريحا"},
		{"alef hamza below folded", "إريحا", "اريحا"},
		{"alef madda folded", "آريحا", "اريحا"},
		{"surrounding whitespace trimmed", "  صره  ", "صره"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "صره", "العيزرية", "والعيزرية", "زعترة", "أريحا",
		"لل مربعه", "بيت جالا", "عين سينيا", "صره مفتوح والطريق سالك",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeCollapsesVariants(t *testing.T) {
	// Each pair is a declared spelling variant of the same checkpoint.
	variants := [][2]string{
		{"زعترة", "زعتره"},
		{"حوارة", "حواره"},
		{"المربعة", "المربعه"},
		{"الساوية", "الساويه"},
		{"أريحا", "اريحا"},
		{"العيزرية", "العيزريه"},
	}
	for _, v := range variants {
		if Normalize(v[0]) != Normalize(v[1]) {
			t.Errorf("variants %q and %q normalize to %q and %q, want equal",
				v[0], v[1], Normalize(v[0]), Normalize(v[1]))
		}
	}
}
