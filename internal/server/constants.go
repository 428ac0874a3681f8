package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRetryAfter     = "Retry-After"
)

const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

var securityHeaders = map[string]string{
	HeaderContentType:    HeaderValueNoSniff,
	HeaderFrameOptions:   HeaderValueSameOrigin,
	HeaderXSSProtection:  HeaderValueXSSBlock,
	HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
}

// Abuse detection limits, per client IP
const (
	RateWindow           = 5 * time.Minute
	FailedAuthAlertThreshold = 5
	MaxRequestsPerWindow     = 1000
	HighRateLogEvery         = 100
	TrackedClientsMax        = 10_000
)

// Server limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second
)

// FeedPath serves the public jackpot websocket. Browsers cannot attach the
// API key header to a websocket handshake.
const FeedPath = "/api/v1/wheel/feed"

// PublicPaths bypass authentication
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
	FeedPath,
}

// RedactedValue replaces credential headers in debug logs.
const RedactedValue = "[REDACTED]"

// HeaderRequestID echoes the request id so clients can quote it.
const HeaderRequestID = "X-Request-ID"

// quietPaths are polled constantly and not logged.
var quietPaths = []string{"/healthz", "/readyz", "/metrics"}
