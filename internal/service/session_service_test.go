package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codebloom/codebloom-backend/internal/service"
)

type fakeSessionStore struct {
	latest string
	err    error
}

func (f *fakeSessionStore) LatestSessionID(_ context.Context, _ string) (string, error) {
	return f.latest, f.err
}

func TestNextSessionToken(t *testing.T) {
	cases := []struct {
		name   string
		latest string
		want   string
	}{
		{"no_prior_submissions", "", "PHIEN_1"},
		{"increments_latest", "PHIEN_4", "PHIEN_5"},
		{"bare_integer_token", "7", "PHIEN_8"},
		{"unparsable_token", "phien-cu", "PHIEN_1"},
		{"prefix_without_number", "PHIEN_", "PHIEN_1"},
		{"negative_number", "PHIEN_-3", "PHIEN_1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewSessionService(&fakeSessionStore{latest: tc.latest}, "PHIEN_")

			got, err := svc.NextSessionToken(context.Background(), "SV001")
			if err != nil {
				t.Fatalf("NextSessionToken: %v", err)
			}
			if got != tc.want {
				t.Errorf("NextSessionToken(%q) = %q, want %q", tc.latest, got, tc.want)
			}
		})
	}
}

func TestNextSessionTokenCustomPrefix(t *testing.T) {
	svc := service.NewSessionService(&fakeSessionStore{latest: "S_9"}, "S_")

	got, err := svc.NextSessionToken(context.Background(), "SV001")
	if err != nil {
		t.Fatalf("NextSessionToken: %v", err)
	}
	if got != "S_10" {
		t.Errorf("NextSessionToken = %q, want S_10", got)
	}
}

func TestNextSessionTokenStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := service.NewSessionService(&fakeSessionStore{err: storeErr}, "PHIEN_")

	if _, err := svc.NextSessionToken(context.Background(), "SV001"); !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
