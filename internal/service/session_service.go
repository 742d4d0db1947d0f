package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SessionStore is the slice of the ledger the sequencer needs.
type SessionStore interface {
	LatestSessionID(ctx context.Context, studentID string) (string, error)
}

// SessionService derives the next session token for a student. Session ids
// are caller-supplied on submit; this sequencer is a convenience for clients
// starting a fresh attempt, and the ledger's unique index backstops any race
// between two concurrent calls handing out the same token.
type SessionService struct {
	store  SessionStore
	prefix string
}

// NewSessionService creates a new SessionService. prefix is the generated
// token prefix (default "PHIEN_").
func NewSessionService(store SessionStore, prefix string) *SessionService {
	return &SessionService{store: store, prefix: prefix}
}

// NextSessionToken inspects the student's most recent submission and returns
// the following token in the sequence. No prior submission, or a token whose
// numeric part cannot be parsed, restarts the sequence at 1.
func (s *SessionService) NextSessionToken(ctx context.Context, studentID string) (string, error) {
	latest, err := s.store.LatestSessionID(ctx, studentID)
	if err != nil {
		return "", fmt.Errorf("read latest session: %w", err)
	}

	return fmt.Sprintf("%s%d", s.prefix, s.parseSequence(latest)+1), nil
}

// parseSequence extracts the numeric part of a session token. Accepts both
// prefixed tokens ("PHIEN_4") and bare integers ("4"); anything else is 0.
func (s *SessionService) parseSequence(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	token = strings.TrimPrefix(token, s.prefix)

	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
