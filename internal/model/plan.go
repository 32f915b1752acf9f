package model

// Purchase is one line item of an allocation plan.
type Purchase struct {
	Symbol    string
	Quantity  int64
	UnitPrice float64
	Cost      float64
	Reasons   []Reason
	Score     float64
}

// LeftoverAdvice describes what to do with cash the greedy pass could not spend.
type LeftoverAdvice struct {
	// Park: put leftover into the configured low-volatility parking instrument.
	ParkSymbol   string
	ParkQuantity int64
	ParkAmount   float64
	// SaveFor: a ranked-but-unaffordable high-quality pick worth waiting for.
	SaveForSymbol string
	SaveForPrice  float64
	// LowActivity: leftover too small for any action; hold as cash.
	LowActivity bool
}

// AllocationPlan is the output of one greedy allocation pass for one user.
// It is computed fresh each cycle and never persisted by the core.
type AllocationPlan struct {
	Purchases      []Purchase
	CashAvailable  float64
	CashConsumed   float64
	CashRemaining  float64
	NoOpportunity  bool
	LeftoverAdvice *LeftoverAdvice // nil when CashAvailable was 0 or no opportunities existed
}

// AlertKind classifies an intraday alert.
type AlertKind string

const (
	AlertGlobalWeakness AlertKind = "GLOBAL_WEAKNESS"
	AlertPortfolioCrash AlertKind = "PORTFOLIO_CRASH"
	AlertBuyOpportunity AlertKind = "BUY_OPPORTUNITY"
)

// Alert is one intraday advisory for a user.
type Alert struct {
	Kind    AlertKind
	Symbol  string
	Score   float64
	Price   float64
	Message string
}
