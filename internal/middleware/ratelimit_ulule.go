package middleware

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
)

const defaultRatelimitRate = "20-M"

// RateLimit returns a fixed-rate ulule/limiter middleware on store.
// rateStr uses the limiter format, e.g. "20-M". Each scope counts
// requests separately.
func RateLimit(store limiter.Store, rateStr, scope string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = defaultRatelimitRate
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, rate)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(rateLimitKey(scope)))
	return mw.Handler, nil
}
