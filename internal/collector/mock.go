package collector

import (
	"context"
	"sync"
	"time"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Safe for concurrent use.
type MockFetcher struct {
	Price  float64
	Series map[string]*model.PriceSeries
	Err    error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

// CalledSymbols returns every symbol fetched so far.
func (m *MockFetcher) CalledSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return GenerateSeries(symbol, m.Price, 260), nil
}

// GenerateSeries builds a synthetic drifting series around basePrice.
func GenerateSeries(symbol string, basePrice float64, count int) *model.PriceSeries {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return &model.PriceSeries{
		Symbol:       symbol,
		Bars:         bars,
		CurrentPrice: basePrice,
		FetchedAt:    time.Now(),
	}
}
