package exercisegen

import (
	"errors"
	"strings"

	"github.com/abhisek/practiz/internal/llm"
)

// ErrorClass groups backend failures. Every class advances the chain; the
// class only decides how the attempt is reported.
type ErrorClass int

const (
	ClassFailed      ErrorClass = iota // anything else
	ClassTransient                     // rate limited or out of quota
	ClassUnavailable                   // unknown model or backend down
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

// ClassifyError maps a backend error to its class. Typed errors from the
// llm package are checked first, then the message text.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ClassFailed
	}

	var rateErr *llm.ErrRateLimit
	if errors.As(err, &rateErr) {
		return ClassTransient
	}
	var nfErr *llm.ErrModelNotFound
	if errors.As(err, &nfErr) {
		return ClassUnavailable
	}
	var unavailErr *llm.ErrProviderUnavailable
	if errors.As(err, &unavailErr) {
		return ClassUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate"), strings.Contains(msg, "limit"), strings.Contains(msg, "quota"):
		return ClassTransient
	case strings.Contains(msg, "not found"), strings.Contains(msg, "invalid model"):
		return ClassUnavailable
	}
	return ClassFailed
}
