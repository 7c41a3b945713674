package apperr

import "errors"

var (
	// ErrUsage indicates bad or missing command-line arguments.
	ErrUsage = errors.New("usage error")
	// ErrConfig indicates an unparsable request or an invalid environment tag.
	ErrConfig = errors.New("config error")
	// ErrFetch indicates the source document could not be retrieved.
	ErrFetch = errors.New("fetch error")
	// ErrParse indicates the source document is not valid JSON.
	ErrParse = errors.New("parse error")
	// ErrWrite indicates the object store rejected or failed the write.
	ErrWrite = errors.New("write error")
)

// Kind names an error class; it doubles as the Temporal application error type.
type Kind string

const (
	KindUsage    Kind = "UsageError"
	KindConfig   Kind = "ConfigError"
	KindFetch    Kind = "FetchError"
	KindParse    Kind = "ParseError"
	KindWrite    Kind = "WriteError"
	KindInternal Kind = "InternalError"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUsage, KindUsage},
	{ErrConfig, KindConfig},
	{ErrFetch, KindFetch},
	{ErrParse, KindParse},
	{ErrWrite, KindWrite},
}

// KindOf reports the kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

// Sentinel returns the sentinel error for k, or nil for unknown kinds.
// It restores a kind carried as a string, e.g. a Temporal application error type.
func Sentinel(k Kind) error {
	for _, e := range kinds {
		if e.kind == k {
			return e.err
		}
	}
	return nil
}
