package collector

import (
	"context"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

// Fetcher retrieves a cleaned daily price series for one symbol.
// Errors are recoverable, per-symbol conditions; callers degrade rather
// than abort a cycle.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string) (*model.PriceSeries, error)
	Name() string
}
