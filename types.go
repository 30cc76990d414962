package lingoq

import (
	"context"
	"time"
)

// DefaultSourceLang is the language UI strings are authored in.
const DefaultSourceLang = "en"

// ResultSource tells how a Result was produced.
type ResultSource string

const (
	// SourcePassthrough means no translation was needed.
	SourcePassthrough ResultSource = "passthrough"
	// SourceCache means the result came from the translation cache.
	SourceCache ResultSource = "cache"
	// SourceUpstream means the upstream provider translated the batch.
	SourceUpstream ResultSource = "upstream"
	// SourceFallback means the original texts were returned untranslated.
	SourceFallback ResultSource = "fallback"
)

// Request is a batch of source strings to translate into one language.
type Request struct {
	Texts      []string // Source strings, order is preserved end-to-end
	TargetLang string   // Target language code (e.g., "es", "hi", "pt_BR")
}

// Result is the resolution of a Request.
// Texts always has the same length and order as the request's Texts.
type Result struct {
	Texts    []string
	Source   ResultSource
	Attempts int // Upstream attempts spent on this request
}

// AIProvider is the interface for the upstream text-generation collaborator.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// AIProviderFunc adapts a function to the AIProvider interface.
type AIProviderFunc func(ctx context.Context, req TranslateRequest) ([]string, error)

// Translate calls f(ctx, req).
func (f AIProviderFunc) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return f(ctx, req)
}

// TranslateRequest contains the parameters for an upstream call.
type TranslateRequest struct {
	Texts      []string
	TargetLang string
	SourceLang string
}

// TranslationCache is the interface for translation caching.
// Values are opaque strings; the coordinator stores JSON arrays.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Stats is a point-in-time snapshot of a Coordinator.
type Stats struct {
	Queued      int       `json:"queued"`
	InFlight    bool      `json:"in_flight"`
	CoolingDown bool      `json:"cooling_down"`
	ResumeAt    time.Time `json:"resume_at"`

	Submitted        int64 `json:"submitted"`
	Passthrough      int64 `json:"passthrough"`
	CacheHits        int64 `json:"cache_hits"`
	UpstreamCalls    int64 `json:"upstream_calls"`
	UpstreamFailures int64 `json:"upstream_failures"`
	RateLimited      int64 `json:"rate_limited"`
	Fallbacks        int64 `json:"fallbacks"`
	Abandoned        int64 `json:"abandoned"`
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}
