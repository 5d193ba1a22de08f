package view

import "github.com/ytget/song-downloader/internal/model"

// Phase is the tag of the search part of the view state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResults
	PhaseError
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseResults:
		return "Results"
	case PhaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// State is an immutable snapshot of the view.
// Items is only set in PhaseResults and Message only in PhaseError.
type State struct {
	Phase       Phase
	Query       string
	Items       []model.MenuItem
	Message     string
	Selected    *model.MenuItem
	Downloading bool
}

// IsLoading reports whether a search is in flight
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// HasResults reports whether a result list should be shown
func (s State) HasResults() bool {
	return s.Phase == PhaseResults
}

func (s State) clone() State {
	out := s
	if s.Items != nil {
		out.Items = append([]model.MenuItem(nil), s.Items...)
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	return out
}
