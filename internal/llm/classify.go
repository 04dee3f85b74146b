package llm

import "strings"

type ErrorKind int

const (
	ErrOther ErrorKind = iota
	ErrRateLimited
	ErrQuotaExceeded
	ErrModelUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRateLimited:
		return "rate_limited"
	case ErrQuotaExceeded:
		return "quota_exceeded"
	case ErrModelUnavailable:
		return "model_unavailable"
	default:
		return "other"
	}
}

// Classify buckets an upstream error by substring-matching its message. The
// completion API does not expose its error taxonomy structurally, so this
// list is the compatibility contract with its error vocabulary. Keep all
// matching here; nothing else in the codebase should inspect error text.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrOther
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return ErrRateLimited
	case strings.Contains(msg, "quota") || strings.Contains(msg, "insufficient"):
		return ErrQuotaExceeded
	// "decommissioned" also covers the model_decommissioned error code
	case strings.Contains(msg, "decommissioned"):
		return ErrModelUnavailable
	default:
		return ErrOther
	}
}
