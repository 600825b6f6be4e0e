package effects

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
)

type recordingRequester struct {
	// failPaths maps endpoint paths to the error their call returns.
	failPaths map[string]error
	calls     []string
	bodies    []map[string]any
}

func (r *recordingRequester) Do(ctx context.Context, ep api.Endpoint, params map[string]any) (json.RawMessage, error) {
	r.calls = append(r.calls, ep.Path)
	r.bodies = append(r.bodies, params)
	if err, ok := r.failPaths[ep.Path]; ok {
		return nil, err
	}
	return json.RawMessage(`{}`), nil
}

func testContext() Context {
	return Context{
		TxHash: "abc123",
		Alias:  "ada",
		Params: map[string]any{"course_id": "cs101"},
		BuildResponse: map[string]any{
			"unsigned":      "cbor",
			"credential_id": "cred-42",
		},
	}
}

func TestRunContinuesPastCriticalFailure(t *testing.T) {
	req := &recordingRequester{failPaths: map[string]error{
		"/v2/assignments/status": errors.New("409 conflict"),
	}}
	r := NewRunner(req, nil)

	descs := []Descriptor{
		{Name: "sync-enrollment", Kind: KindEnrollmentSync, Target: api.Endpoint{Method: "POST", Path: "/v2/enrollments"}},
		{Name: "update-assignment", Kind: KindAssignmentStatus, Critical: true, Target: api.Endpoint{Method: "POST", Path: "/v2/assignments/status"}},
		{Name: "refresh-index", Kind: KindIndexRefresh, Target: api.Endpoint{Method: "POST", Path: "/v2/index/refresh"}},
	}

	res := r.Run(context.Background(), descs, testContext())

	if res.Success {
		t.Fatalf("critical failure must downgrade the run")
	}
	if len(res.CriticalErrors) != 1 {
		t.Fatalf("expected one critical error, got %v", res.CriticalErrors)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("expected three outcomes, got %d", len(res.Outcomes))
	}
	third := res.Outcomes[2]
	if !third.Ran || !third.Succeeded || third.Skipped {
		t.Fatalf("third descriptor must still be attempted: %+v", third)
	}
	if res.Err() == nil {
		t.Fatalf("failed run must fold into an error")
	}
}

func TestRunZeroDescriptors(t *testing.T) {
	r := NewRunner(&recordingRequester{}, nil)
	res := r.Run(context.Background(), nil, testContext())
	if !res.Success {
		t.Fatalf("empty run should succeed")
	}
	if len(res.Outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(res.Outcomes))
	}
	if res.Err() != nil {
		t.Fatalf("successful run must not produce an error")
	}
}

func TestRunNonCriticalFailureStillSucceeds(t *testing.T) {
	req := &recordingRequester{failPaths: map[string]error{
		"/v2/notify": errors.New("notification service down"),
	}}
	r := NewRunner(req, nil)

	res := r.Run(context.Background(), []Descriptor{
		{Name: "notify", Kind: KindNotification, Target: api.Endpoint{Method: "POST", Path: "/v2/notify"}},
	}, testContext())

	if !res.Success {
		t.Fatalf("non-critical failure must not downgrade the run")
	}
	if res.Outcomes[0].Succeeded || res.Outcomes[0].Err == "" {
		t.Fatalf("failure must still be recorded: %+v", res.Outcomes[0])
	}
}

func TestRunSkipsOnUnmetPrecondition(t *testing.T) {
	req := &recordingRequester{}
	r := NewRunner(req, nil)

	res := r.Run(context.Background(), []Descriptor{
		{
			Name:     "mirror-credential",
			Kind:     KindCredentialMirror,
			Target:   api.Endpoint{Method: "POST", Path: "/v2/credentials"},
			Requires: []string{"build:nonexistent_id"},
		},
	}, testContext())

	if !res.Success {
		t.Fatalf("skipped steps do not fail the run")
	}
	out := res.Outcomes[0]
	if !out.Skipped || out.Ran {
		t.Fatalf("expected a skipped outcome: %+v", out)
	}
	if len(req.calls) != 0 {
		t.Fatalf("skipped step must not hit the API")
	}
}

func TestRunPreservesOrderAndMapsFields(t *testing.T) {
	req := &recordingRequester{}
	r := NewRunner(req, nil)

	descs := []Descriptor{
		{
			Name:   "sync-enrollment",
			Kind:   KindEnrollmentSync,
			Target: api.Endpoint{Method: "POST", Path: "/v2/enrollments"},
			Fields: map[string]string{
				"alias":     "alias",
				"tx_hash":   "tx_hash",
				"course_id": "param:course_id",
			},
		},
		{
			Name:   "mirror-credential",
			Kind:   KindCredentialMirror,
			Target: api.Endpoint{Method: "POST", Path: "/v2/credentials"},
			Fields: map[string]string{
				"credential_id": "build:credential_id",
				"tx_hash":       "tx_hash",
			},
		},
	}

	res := r.Run(context.Background(), descs, testContext())
	if !res.Success {
		t.Fatalf("run failed: %v", res.CriticalErrors)
	}
	if len(req.calls) != 2 || req.calls[0] != "/v2/enrollments" || req.calls[1] != "/v2/credentials" {
		t.Fatalf("descriptor order not preserved: %v", req.calls)
	}
	first := req.bodies[0]
	if first["alias"] != "ada" || first["tx_hash"] != "abc123" || first["course_id"] != "cs101" {
		t.Fatalf("field mapping broken: %v", first)
	}
	second := req.bodies[1]
	if second["credential_id"] != "cred-42" {
		t.Fatalf("build-response identifiers must be recoverable: %v", second)
	}
}

func TestRunRejectsUnknownKind(t *testing.T) {
	req := &recordingRequester{}
	r := NewRunner(req, nil)

	res := r.Run(context.Background(), []Descriptor{
		{Name: "mystery", Kind: Kind("teleport"), Critical: true},
	}, testContext())

	if res.Success {
		t.Fatalf("unknown critical kind must fail the run")
	}
	if len(req.calls) != 0 {
		t.Fatalf("unknown kind must not hit the API")
	}
	if len(res.CriticalErrors) != 1 {
		t.Fatalf("expected one critical error, got %v", res.CriticalErrors)
	}
}

func TestContextResolve(t *testing.T) {
	ec := testContext()

	cases := []struct {
		ref  string
		want any
		ok   bool
	}{
		{"tx_hash", "abc123", true},
		{"alias", "ada", true},
		{"param:course_id", "cs101", true},
		{"build:credential_id", "cred-42", true},
		{"param:missing", nil, false},
		{"bogus", nil, false},
	}
	for _, tc := range cases {
		got, ok := ec.Resolve(tc.ref)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v want %v", tc.ref, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.ref, got, tc.want)
		}
	}
}
