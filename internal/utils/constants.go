package utils

// HTTP Header Constants
const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
	HeaderCacheControl  = "Cache-Control"
	HeaderOrigin        = "Origin"
	HeaderVary          = "Vary"

	// Request/Response Tracking Headers
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderResponseTime  = "X-Response-Time"

	// Client IP Headers (priority order)
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderCloudFlareRay  = "cf-ray"

	// CORS Headers
	HeaderAccessControlAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods  = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders  = "Access-Control-Allow-Headers"
	HeaderAccessControlExposeHeaders = "Access-Control-Expose-Headers"
	HeaderAccessControlRequestMethod = "Access-Control-Request-Method"
	HeaderAccessControlMaxAge        = "Access-Control-Max-Age"

	// Agent flow result headers
	HeaderAgentFlowBranch  = "X-Agent-Flow-Branch"
	HeaderAgentFlowTraceID = "X-Agent-Flow-Trace-ID"

	HeaderXContentTypeOptions = "X-Content-Type-Options"
	HeaderXAccelBuffering     = "X-Accel-Buffering"
)

// Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeAudioMPEG = "audio/mpeg"
	ContentTypeMultipart = "multipart/form-data"
)

// Header values
const (
	CacheControlNoCache        = "no-cache"
	XContentTypeOptionsNoSniff = "nosniff"
	XAccelBufferingNo          = "no"
	CORSExposeHeadersStd       = "X-Request-ID, X-Correlation-ID, X-Response-Time, X-Agent-Flow-Branch, X-Agent-Flow-Trace-ID"
	CORSMaxAge                 = "600"
)

// Service Information
const (
	ServiceName    = "eduverse-backend"
	ServiceVersion = "1.0.0"
)
