package quotes

import (
	"context"
	"fmt"
	"math/rand"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"news-impact-engine/internal/logger"
)

// Source supplies the current price that seeds a forecast path.
type Source interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// StaticSource returns synthetic prices around a base value. It is the
// default for offline runs and tests.
type StaticSource struct {
	Base float64
}

func NewStaticSource(base float64) *StaticSource {
	if base <= 0 {
		base = 1000
	}
	return &StaticSource{Base: base}
}

func (s *StaticSource) LastPrice(ctx context.Context, symbol string) (float64, error) {
	price := s.Base + rand.Float64()*s.Base*0.1
	logger.Debug(ctx, "Fetched static price", "symbol", symbol, "price", price)
	return price, nil
}

// KiteSource pulls last traded prices from the Kite Connect API.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
}

func NewKiteSource(apiKey, accessToken, exchange string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{kc: kc, exchange: exchange}
}

func (k *KiteSource) LastPrice(ctx context.Context, symbol string) (float64, error) {
	instrument := fmt.Sprintf("%s:%s", k.exchange, symbol)
	ltp, err := k.kc.GetLTP(instrument)
	if err != nil {
		return 0, fmt.Errorf("fetching LTP for %s: %w", instrument, err)
	}
	quote, ok := ltp[instrument]
	if !ok {
		return 0, fmt.Errorf("no quote returned for %s", instrument)
	}

	logger.Debug(ctx, "Fetched live price", "symbol", symbol, "price", quote.LastPrice)
	return quote.LastPrice, nil
}
