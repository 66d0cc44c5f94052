package azuread

import (
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/runwell-io/action-azuread-group-remove/runner"
)

var logger hclog.Logger

func init() {
	logger = runner.Logger()
}

// escapeSegment percent-encodes a single path segment with full component
// encoding. url.PathEscape leaves '+' and '@' intact, which corrupts principal
// names on the wire, so reserved characters are escaped the query way and the
// space rewritten to %20.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
