package features

import "sort"

// LabelEncoder maps category strings onto small integer codes. The learned
// vocabulary is persisted with the model; a value unseen at inference time
// never raises, it falls back to DefaultCode.
type LabelEncoder struct {
	Classes     []string `json:"classes"`
	DefaultCode int      `json:"default_code"`

	index map[string]int
}

// FitEncoder learns the sorted unique vocabulary of values.
func FitEncoder(values []string, defaultCode int) *LabelEncoder {
	seen := make(map[string]bool, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	enc := &LabelEncoder{Classes: classes, DefaultCode: defaultCode}
	enc.buildIndex()
	return enc
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

// Encode returns the code of value, or DefaultCode for unseen values.
func (e *LabelEncoder) Encode(value string) int {
	if e.index == nil {
		e.buildIndex()
	}
	if code, ok := e.index[value]; ok {
		return code
	}
	return e.DefaultCode
}
