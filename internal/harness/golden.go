package harness

import (
	"net/http"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs the scenario, fails the test on status mismatches, and
// compares the transcript with testdata/golden/<name>.golden.
// Regenerate fixtures with go test -update.
func RunWithGolden(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	res, err := Run(handler, s)
	if err != nil {
		t.Fatalf("run scenario %s: %v", s.Name, err)
	}
	for _, f := range res.Failures {
		t.Error(f)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, res.Transcript())
}
