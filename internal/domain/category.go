package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnexpectedStatus marks a fetched page whose HTTP status is not 2xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrRunNotFound is returned when no stored categories exist for a run id.
var ErrRunNotFound = errors.New("run not found")

// Link is a same-site relative article path discovered on the seed page.
type Link string

// LinkSet holds distinct links; iteration order carries no meaning.
type LinkSet map[Link]struct{}

// NewLinkSet builds a set from the given links, dropping duplicates.
func NewLinkSet(links ...Link) LinkSet {
	set := make(LinkSet, len(links))
	for _, l := range links {
		set.Add(l)
	}
	return set
}

// Add inserts the link and reports whether it was new.
func (s LinkSet) Add(l Link) bool {
	if _, ok := s[l]; ok {
		return false
	}
	s[l] = struct{}{}
	return true
}

// Has reports membership.
func (s LinkSet) Has(l Link) bool {
	_, ok := s[l]
	return ok
}

// Sorted returns the links in lexical order, for stable logs and tests.
func (s LinkSet) Sorted() []Link {
	out := make([]Link, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Page is the raw result of a single GET.
type Page struct {
	URL    string
	Status int
	Body   []byte
}

// Err returns a wrapped ErrUnexpectedStatus for non-2xx pages.
func (p Page) Err() error {
	if p.Status >= 200 && p.Status < 300 {
		return nil
	}
	return fmt.Errorf("%s returned %d: %w", p.URL, p.Status, ErrUnexpectedStatus)
}

// FrequencyTable maps a category label to its occurrence count.
type FrequencyTable map[string]int

// Tally counts every label. The result does not depend on label order.
func Tally(labels []string) FrequencyTable {
	table := make(FrequencyTable, len(labels))
	for _, label := range labels {
		table[label]++
	}
	return table
}

// Repeated keeps entries whose count is at least minCount. minCount is
// raised to 2 so single occurrences never survive.
func (t FrequencyTable) Repeated(minCount int) FrequencyTable {
	if minCount < 2 {
		minCount = 2
	}
	out := FrequencyTable{}
	for label, count := range t {
		if count >= minCount {
			out[label] = count
		}
	}
	return out
}

// Total is the sum of all counts.
func (t FrequencyTable) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// Entry is a single row of a frequency table.
type Entry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Entries orders rows by count descending, then label ascending.
func (t FrequencyTable) Entries() []Entry {
	entries := make([]Entry, 0, len(t))
	for label, count := range t {
		entries = append(entries, Entry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// LinkFailure records a link whose fetch did not contribute labels.
type LinkFailure struct {
	Link Link
	URL  string
	Err  error
}

// Report is the outcome of a single scan run.
type Report struct {
	RunID           string
	SeedURL         string
	StartedAt       time.Time
	FinishedAt      time.Time
	LinksDiscovered int
	PagesFetched    int
	LabelsCollected int
	Failures        []LinkFailure
	// Categories holds only repeated labels.
	Categories FrequencyTable
}

// Duration of the run.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
