package engine

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kasheena/code-for-good/internal/sentiment"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	opts := wellnessOptions(sentiment.NewVADER())
	e, err := New(opts)
	if err != nil {
		t.Fatalf("build engine offline: %v", err)
	}

	text := strings.Repeat("I feel hopeless and worthless. ", 200)
	r := e.Analyze(context.Background(), text)
	if r.Degraded {
		t.Fatalf("expected bundled sentiment to work offline, got warnings %v", r.Warnings)
	}
	if r.Result.Sentiment == nil {
		t.Fatal("expected a sentiment score")
	}
	if len(r.Matches) != 400 {
		t.Fatalf("expected 400 matches, got %d", len(r.Matches))
	}
	if r.Tier.Name != "Moderate" {
		t.Fatalf("expected Moderate tier, got %s", r.Tier.Name)
	}
}
