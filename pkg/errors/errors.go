// Package errors provides error handling for gait.
//
// It re-exports github.com/cockroachdb/errors and adds the pipeline error
// taxonomy: sentinel errors for every failure class and StageError, which
// records which pipeline stage produced a failure so callers can tell a
// configuration problem from a transient one.
//
//	if errors.Is(err, errors.ErrUnsupportedAPI) {
//	    // reject the request
//	}
//	if errors.StageOf(err) == errors.StageInvoke {
//	    // the external API failed
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetailf  = crdb.WithDetailf
	Mark         = crdb.Mark
)

// Error inspection
var (
	Is          = crdb.Is
	IsAny       = crdb.IsAny
	As          = crdb.As
	Unwrap      = crdb.Unwrap
	UnwrapAll   = crdb.UnwrapAll
	GetAllHints = crdb.GetAllHints
)

// Pipeline failure classes. Wrap or Mark these to add context while keeping
// errors.Is working.
var (
	// ErrUnsupportedAPI means the intent names an API outside the registry.
	ErrUnsupportedAPI = New("unsupported api")

	// ErrMappingUnavailable means the mapping store could not be reached or
	// returned no bindings for a mandatory pattern.
	ErrMappingUnavailable = New("mapping unavailable")

	// ErrMissingIdentifier means the selected query shape needs an identifier
	// the intent does not carry.
	ErrMissingIdentifier = New("missing identifier")

	// ErrCompilation means the assembled query text is not valid GraphQL.
	ErrCompilation = New("compilation error")

	// ErrExternalCall means the target API failed at the transport level,
	// answered non-2xx or returned GraphQL errors.
	ErrExternalCall = New("external call failed")

	// ErrMissingCredentials means an API that requires a token has none
	// configured.
	ErrMissingCredentials = New("missing credentials")

	// ErrCacheUnavailable means the cache backing store could not be reached.
	ErrCacheUnavailable = New("cache unavailable")

	// ErrIntentUnavailable means the upstream parser could not produce an
	// intent for the prompt.
	ErrIntentUnavailable = New("intent unavailable")

	// ErrInvalidConfig means the configuration failed validation.
	ErrInvalidConfig = New("invalid configuration")
)

// IsConfiguration reports whether err is caused by configuration rather than
// by a transient condition: an unknown API, a missing credential or invalid
// configuration.
func IsConfiguration(err error) bool {
	return IsAny(err, ErrUnsupportedAPI, ErrMissingCredentials, ErrInvalidConfig)
}

// IsTransient reports whether err is a failure that may succeed when the
// request is repeated later.
func IsTransient(err error) bool {
	return IsAny(err, ErrExternalCall, ErrMappingUnavailable, ErrCacheUnavailable, ErrIntentUnavailable)
}
