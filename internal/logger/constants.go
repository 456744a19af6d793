package logger

// ComponentNames defines standardized component names for consistent logging
var ComponentNames = struct {
	Server     string
	Middleware string
	Config     string
	Providers  string
	AgentFlow  string
	Handlers   string
	Health     string
	Database   string
}{
	Server:     "Server",
	Middleware: "Middleware",
	Config:     "Config",
	Providers:  "Providers",
	AgentFlow:  "AgentFlow",
	Handlers:   "Handlers",
	Health:     "Health",
	Database:   "Database",
}

// LogStages defines standardized stage names for consistent logging
var LogStages = struct {
	// Request lifecycle
	Request    string
	Validation string
	Response   string

	// Provider operations
	ProviderRequest  string
	ProviderResponse string
	ProviderError    string

	// Agent flow stages
	Ingest     string
	Transcribe string
	Classify   string
	Branch     string
	Answer     string
	Synthesize string

	// Stream processing
	StreamStart     string
	StreamCompleted string
	StreamFailed    string

	// System
	Initialization string
	Shutdown       string
	TrackingSetup  string
	Retry          string
}{
	Request:    "Request",
	Validation: "Validation",
	Response:   "Response",

	ProviderRequest:  "ProviderRequest",
	ProviderResponse: "ProviderResponse",
	ProviderError:    "ProviderError",

	Ingest:     "Ingest",
	Transcribe: "Transcribe",
	Classify:   "Classify",
	Branch:     "Branch",
	Answer:     "Answer",
	Synthesize: "Synthesize",

	StreamStart:     "StreamStart",
	StreamCompleted: "StreamCompleted",
	StreamFailed:    "StreamFailed",

	Initialization: "Initialization",
	Shutdown:       "Shutdown",
	TrackingSetup:  "TrackingSetup",
	Retry:          "Retry",
}
