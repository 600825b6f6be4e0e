package effects

import (
	"strings"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
)

// Kind tags a side-effect variant. The set is closed: the runner interprets
// kinds it knows and fails descriptors carrying anything else.
type Kind string

const (
	// KindEnrollmentSync mirrors a new on-chain enrollment into the off-chain store.
	KindEnrollmentSync Kind = "enrollment_sync"
	// KindAssignmentStatus updates the off-chain status of an evidence submission.
	KindAssignmentStatus Kind = "assignment_status"
	// KindCredentialMirror records a minted credential off-chain.
	KindCredentialMirror Kind = "credential_mirror"
	// KindIndexRefresh asks the backend to refresh search indexes.
	KindIndexRefresh Kind = "index_refresh"
	// KindNotification triggers a platform notification.
	KindNotification Kind = "notification"
)

// Valid reports whether the kind belongs to the closed set.
func (k Kind) Valid() bool {
	switch k {
	case KindEnrollmentSync, KindAssignmentStatus, KindCredentialMirror, KindIndexRefresh, KindNotification:
		return true
	}
	return false
}

// Descriptor is one ordered post-submission step: an API target, a mapping of
// context fields into its request body, and a criticality flag.
type Descriptor struct {
	Name   string
	Kind   Kind
	Target api.Endpoint

	// Fields maps request body fields to context references
	// ("tx_hash", "alias", "param:<name>", "build:<name>").
	Fields map[string]string

	// Requires lists context references that must resolve for the step to
	// run; an unmet requirement records the step as skipped.
	Requires []string

	// Critical steps failing downgrade the overall run; non-critical
	// failures are logged and skipped over.
	Critical bool
}

// Context carries everything a side effect may need: the submitted tx hash,
// the caller identity, the original build parameters and the raw build
// response (source of backend-generated identifiers).
type Context struct {
	TxHash        string
	Alias         string
	Params        map[string]any
	BuildResponse map[string]any
}

// Resolve looks up a context reference. The second return reports whether the
// reference resolved to a non-empty value.
func (c Context) Resolve(ref string) (any, bool) {
	switch {
	case ref == "tx_hash":
		return c.TxHash, c.TxHash != ""
	case ref == "alias":
		return c.Alias, c.Alias != ""
	case strings.HasPrefix(ref, "param:"):
		v, ok := c.Params[strings.TrimPrefix(ref, "param:")]
		return v, ok && !empty(v)
	case strings.HasPrefix(ref, "build:"):
		v, ok := c.BuildResponse[strings.TrimPrefix(ref, "build:")]
		return v, ok && !empty(v)
	}
	return nil, false
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
