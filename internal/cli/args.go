package cli

import (
	"fmt"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/catalog"
)

// Mode is the invocation form the arguments were given in.
type Mode string

const (
	// ModeStructured is a single JSON object argument.
	ModeStructured Mode = "structured"
	// ModePositional is <name> <moduleName> <host> [environment].
	ModePositional Mode = "positional"
)

const usageLine = `usage: miniapp-config [flags] '{"name":"...","moduleName":"...","releaseUrl":"...","environment":"dev|prod"}'
       miniapp-config [flags] <name> <moduleName> <host> [environment]`

// ParseArgs turns positional arguments into an upsert request. One argument
// selects structured mode, three or four select positional mode; anything else
// is a usage error. Required fields are checked in both modes.
func ParseArgs(args []string) (catalog.UpsertRequest, Mode, error) {
	var (
		req  catalog.UpsertRequest
		mode Mode
		err  error
	)
	switch len(args) {
	case 1:
		mode = ModeStructured
		req, err = catalog.ParseRequest([]byte(args[0]))
		if err != nil {
			return catalog.UpsertRequest{}, mode, err
		}
	case 3, 4:
		mode = ModePositional
		req = catalog.UpsertRequest{Name: args[0], ModuleName: args[1], ReleaseURL: args[2]}
		if len(args) == 4 {
			req.Environment = args[3]
		}
	default:
		return catalog.UpsertRequest{}, "", fmt.Errorf("%w: expected 1 JSON argument or 3-4 positional arguments, got %d\n%s", apperr.ErrUsage, len(args), usageLine)
	}
	if err := req.Validate(); err != nil {
		return catalog.UpsertRequest{}, mode, err
	}
	return req, mode, nil
}
