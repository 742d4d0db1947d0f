package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// SandboxGrader grades by POSTing the submission to a remote code-execution
// judge. Transport failures and 5xx responses are retried with doubling
// backoff up to maxRetries before surfacing ErrUnavailable; a verdict is
// never fabricated from a failed call.
type SandboxGrader struct {
	url        string
	client     *http.Client
	maxRetries int
	log        zerolog.Logger
}

// NewSandboxGrader creates a SandboxGrader. timeout bounds each judge call
// so a hung sandbox surfaces as ErrUnavailable instead of a stuck request.
func NewSandboxGrader(url string, timeout time.Duration, maxRetries int, log zerolog.Logger) *SandboxGrader {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SandboxGrader{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		log:        log.With().Str("component", "sandbox_grader").Logger(),
	}
}

type judgeRequest struct {
	Code           string `json:"code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type judgeResponse struct {
	Passed bool `json:"passed"`
}

// Grade calls the judge, retrying transient failures.
func (g *SandboxGrader) Grade(ctx context.Context, code, testInput, expectedOutput string) (bool, error) {
	payload, err := json.Marshal(judgeRequest{
		Code:           code,
		Stdin:          testInput,
		ExpectedOutput: expectedOutput,
	})
	if err != nil {
		return false, fmt.Errorf("encode judge request: %w", err)
	}

	backoff := 200 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		passed, retryable, err := g.judge(ctx, payload)
		if err == nil {
			return passed, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		g.log.Warn().Err(err).Int("attempt", attempt+1).Msg("Judge call failed, will retry")
	}

	return false, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// judge performs a single call. retryable reports whether the failure class
// is worth another attempt (network error or 5xx).
func (g *SandboxGrader) judge(ctx context.Context, payload []byte) (passed, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return false, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return false, true, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return false, false, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	var verdict judgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, false, fmt.Errorf("decode judge response: %w", err)
	}
	return verdict.Passed, false, nil
}
