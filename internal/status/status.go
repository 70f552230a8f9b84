// Package status maps free-text traffic messages to a closed set of status
// labels via an ordered keyword taxonomy.
package status

import "strings"

// Label is one observed state of a checkpoint.
type Label string

const (
	Open      Label = "open"
	Closed    Label = "closed"
	SevereJam Label = "sever_traffic_jam" // spelling matches the historical data
	Unknown   Label = "unknown"
)

// Keywords binds one label to the substrings that signal it.
type Keywords struct {
	Label    Label
	Keywords []string
}

// Taxonomy is an ordered list of keyword sets. Order is a contract: when a
// message contains keywords for more than one status, the first entry wins.
type Taxonomy []Keywords

// Classify lowercases text and returns the first label whose keyword occurs
// as a substring, or Unknown when nothing matches. Never errors.
func Classify(text string, taxonomy Taxonomy) Label {
	text = strings.ToLower(text)
	for _, entry := range taxonomy {
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				return entry.Label
			}
		}
	}
	return Unknown
}
