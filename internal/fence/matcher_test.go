package fence

import (
	"strings"
	"testing"
)

func testFences() []Fence {
	return []Fence{
		{ID: 1, Name: "صره", City: "نابلس"},
		{ID: 2, Name: "دير شرف", City: "نابلس"},
		{ID: 3, Name: "عين سينيا", City: "رام الله"},
		{ID: 4, Name: "قلنديا", City: "القدس"},
	}
}

func matchedNames(fences []Fence) []string {
	names := make([]string, len(fences))
	for i, f := range fences {
		names[i] = f.Name
	}
	return names
}

func TestFindFencesExact(t *testing.T) {
	m := DefaultMatcher()
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"single exact match", "صره مفتوح والطريق سالك", []string{"صره"}},
		{"two exact matches", "ازمه خانقه على حاجز صره وحاجز قلنديا مغلق", []string{"صره", "قلنديا"}},
		{"exact match with clitic prefix", "الطريق سالك عبر العين سينيا", []string{"عين سينيا"}},
		{"no fence mentioned", "صباح الخير", nil},
		{"empty message", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchedNames(m.FindFences(tt.message, testFences()))
			if len(got) != len(tt.want) {
				t.Fatalf("FindFences(%q) = %v, want %v", tt.message, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FindFences(%q) = %v, want %v", tt.message, got, tt.want)
				}
			}
		})
	}
}

// An edit-distance-1 typo still resolves through the fuzzy fallback when the
// clause has no exact match.
func TestFindFencesFuzzyTypo(t *testing.T) {
	m := DefaultMatcher()
	got := m.FindFences("عين سنيا", testFences())
	if len(got) != 1 || got[0].Name != "عين سينيا" {
		t.Fatalf("FindFences typo = %v, want [عين سينيا]", matchedNames(got))
	}
}

func TestFindFencesLongMessageClauses(t *testing.T) {
	m := DefaultMatcher()

	padding := strings.Repeat("الطريق مزدحم هذا الصباح بشكل كبير ", 3)
	message := "حاجز صره مغلق تماما، " + padding + "، دير شرف سالك، صره ما زال مغلق"
	if len([]rune(message)) <= m.LongMessageRunes {
		t.Fatalf("test message too short to trigger clause splitting")
	}

	got := matchedNames(m.FindFences(message, testFences()))
	want := []string{"دير شرف", "صره"}
	if len(got) != len(want) {
		t.Fatalf("FindFences = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("FindFences = %v, want %v", got, want)
		}
	}
}

// Fuzzy fallback is scoped per clause: an exact hit in an earlier clause must
// not suppress fuzzy matching of a typo in a later clause.
func TestFindFencesFuzzyPerClause(t *testing.T) {
	m := DefaultMatcher()

	padding := strings.Repeat("ازدحام شديد على الطرق الرئيسيه اليوم ", 3)
	message := "قلنديا مغلق، " + padding + "، عين سنيا"
	if len([]rune(message)) <= m.LongMessageRunes {
		t.Fatalf("test message too short to trigger clause splitting")
	}

	got := matchedNames(m.FindFences(message, testFences()))
	want := []string{"عين سينيا", "قلنديا"}
	if len(got) != len(want) {
		t.Fatalf("FindFences = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("FindFences = %v, want %v", got, want)
		}
	}
}

func TestCanonicalName(t *testing.T) {
	aliases := map[string]string{
		"صرة":   "صره",
		"زعترا": "زعترة",
	}
	tests := []struct {
		in   string
		want string
	}{
		{"صرة", "صره"},
		{" زعترا ", "زعترة"},
		{"دير شرف", "دير شرف"},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.in, aliases); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
