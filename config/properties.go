package config

import (
	"strconv"
	"time"

	"github.com/gear6io/lakecat/pkg/errors"
)

// Well-known catalog property keys. Each backend documents which keys it
// reads; unrecognized keys are ignored rather than rejected.
const (
	PropEndpoint       = "endpoint"
	PropAuthToken      = "auth_token"
	PropConnectTimeout = "connect_timeout_ms"
	PropReadTimeout    = "read_timeout_ms"
	PropMaxRetries     = "max_retries"
	PropRetryDelay     = "retry_delay_ms"
	PropPoolSize       = "pool_size"
	PropDatabase       = "database"
	PropHost           = "host"
	PropPort           = "port"
)

// Properties is a flat string-to-string property bag for backend-specific
// configuration. Typed accessors fail fast on malformed values instead of
// silently substituting defaults.
type Properties map[string]string

// GetString returns the value for key, or def when the key is absent or empty
func (p Properties) GetString(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def when absent. A present but
// non-integer value is a configuration error.
func (p Properties) GetInt(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(ErrPropertyInvalid, "property must be an integer", err).
			AddContext("key", key).
			AddContext("value", v)
	}
	return parsed, nil
}

// GetMillis returns the value for key interpreted as a millisecond count, or
// def when absent
func (p Properties) GetMillis(key string, def time.Duration) (time.Duration, error) {
	ms, err := p.GetInt(key, int(def/time.Millisecond))
	if err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, errors.Newf(ErrPropertyInvalid, "property %s must not be negative, got %d", key, ms).
			AddContext("key", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Clone returns a copy of the property bag
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
