// Package recorder keeps a history of advisory decisions and alerts for
// later review. Nothing in the core reads this history back.
package recorder

import "github.com/Krishnakumar40/ai-investment-system/internal/model"

// Decision records one advised purchase (or the absence of any) for a user.
type Decision struct {
	ChatID         int64
	Cadence        string // "pre_market", "monthly"
	Symbol         string
	Quantity       int64
	UnitPrice      float64
	Cost           float64
	Score          float64
	Recommendation model.Recommendation
	Reasons        []model.Reason
}

// AlertRecord records one delivered alert.
type AlertRecord struct {
	ChatID  int64
	Kind    model.AlertKind
	Symbol  string
	Score   float64
	Message string
}

// Recorder persists decision and alert history.
type Recorder interface {
	RecordDecision(d *Decision) error
	RecordAlert(a *AlertRecord) error
}
