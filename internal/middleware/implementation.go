package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/akolanti/pdfchat/internal/adapter/utils"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/handlers"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.writer.Header().Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)
	return re
}

func (c *Chain) authenticate(re requestResponseStruct) requestResponseStruct {
	token, ok := bearerToken(re.req.Header.Get("Authorization"))
	if !ok {
		re.logger.Warn("missing bearer token")
		return unauthorized(re)
	}
	user, err := c.tokens.ParseToken(token)
	if err != nil {
		re.logger.Warn("invalid token", "error", err)
		return unauthorized(re)
	}
	re.logger = re.logger.With("user", user)
	re.req = re.req.WithContext(utils.WithUser(re.req.Context(), user))
	re.logger.Debug("Authorized")
	return re
}

func bearerToken(authHeader string) (string, bool) {
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(re requestResponseStruct) requestResponseStruct {
	re.badRequest = failureStruct{
		isBadRequest: true,
		httpCode:     http.StatusUnauthorized,
		errorMessage: "Could not validate credentials",
		authenticate: true,
	}
	return re
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
	}
	return re
}

// handleBadRequest writes the failure and reports whether the request may continue.
func handleBadRequest(re requestResponseStruct) bool {
	if !re.badRequest.isBadRequest {
		return true
	}
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	if re.badRequest.authenticate {
		re.writer.Header().Set("WWW-Authenticate", "Bearer")
	}
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
	return false
}
