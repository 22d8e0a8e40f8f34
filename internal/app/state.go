package service

import "time"

// Tab selects which part of the dashboard is shown.
type Tab string

// Dashboard tabs.
const (
	TabForecast Tab = "forecast"
	TabDay      Tab = "day"
	TabHistory  Tab = "history"
)

// Valid reports whether t names a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabForecast, TabDay, TabHistory:
		return true
	}
	return false
}

// State is everything a dashboard view is computed from. A zero From or To
// means the edge of the scenario window; a zero Date means the first
// selectable day.
type State struct {
	Tab        Tab       `json:"tab"`
	ScenarioID int       `json:"scenario"`
	From       int       `json:"from"`
	To         int       `json:"to"`
	Date       time.Time `json:"date"`
	Page       int       `json:"page"`
}

// DefaultState is the view a fresh visitor lands on.
func DefaultState() State {
	return State{Tab: TabForecast, ScenarioID: 1, Page: 1}
}

// Msg is a user interaction that moves the dashboard from one state to the next.
type Msg interface {
	isMsg()
}

// SelectScenario switches the model. The range resets to the full window.
type SelectScenario struct{ ID int }

// SetRange narrows the evaluated window to [From, To].
type SetRange struct{ From, To int }

// PickDate chooses the day shown on the single-date tab.
type PickDate struct{ Date time.Time }

// SelectTab switches between tabs without touching the other controls.
type SelectTab struct{ Tab Tab }

// SetPage moves the forecast table to another page.
type SetPage struct{ Page int }

func (SelectScenario) isMsg() {}
func (SetRange) isMsg()       {}
func (PickDate) isMsg()       {}
func (SelectTab) isMsg()      {}
func (SetPage) isMsg()        {}

// Update applies msg to s and returns the next state. It never validates;
// Render reports anything out of bounds.
func Update(s State, msg Msg) State {
	switch m := msg.(type) {
	case SelectScenario:
		s.ScenarioID = m.ID
		s.From, s.To = 0, 0
		s.Page = 1
	case SetRange:
		s.From, s.To = m.From, m.To
		s.Page = 1
	case PickDate:
		s.Date = m.Date
	case SelectTab:
		s.Tab = m.Tab
	case SetPage:
		s.Page = m.Page
	}
	return s
}
