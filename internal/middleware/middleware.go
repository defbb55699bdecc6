package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	authenticate bool
}

// TokenParser resolves a bearer token to a username.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// Chain runs trace injection and rate limiting on every route, and bearer authentication on
// protected ones.
type Chain struct {
	tokens  TokenParser
	limiter *IPRateLimiter
}

func NewChain(tokens TokenParser) *Chain {
	return &Chain{
		tokens:  tokens,
		limiter: NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND),
	}
}

func (c *Chain) WithLimiter(limiter *IPRateLimiter) *Chain {
	c.limiter = limiter
	return c
}

func (c *Chain) Public(next http.HandlerFunc) http.HandlerFunc {
	return c.wrap(next, false)
}

func (c *Chain) Protected(next http.HandlerFunc) http.HandlerFunc {
	return c.wrap(next, true)
}

func (c *Chain) wrap(next http.HandlerFunc, protected bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
		}()

		re := c.processRequest(requestResponseStruct{req: r, writer: rec}, protected)
		if !handleBadRequest(re) {
			return
		}
		next(rec, re.req)
	}
}

func (c *Chain) processRequest(re requestResponseStruct, protected bool) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	re = c.rateLimiter(re)
	if re.badRequest.isBadRequest || !protected {
		return re
	}
	return c.authenticate(re)
}
