package domain

import "time"

// DocumentInput is plain text already extracted from a PDF briefing by an
// external collaborator.
type DocumentInput struct {
	Name string
	Text string
}

// Digest is the terminal artifact of one run: ranked items, document
// briefs, and the failure records accumulated along the way.
type Digest struct {
	RunID       string
	GeneratedAt time.Time
	Items       []ScoredItem
	Briefs      []DocumentBrief
	Failures    []FetchFailure
}
