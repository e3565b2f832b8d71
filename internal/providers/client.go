package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/qscuio/q-cf-bot/internal/models"
)

const (
	// requestTimeout hard-caps a single outbound provider call. There is
	// exactly one attempt per request, no retries.
	requestTimeout = 55 * time.Second

	// maxOutputTokens caps the response size for providers that take an
	// explicit output-token limit.
	maxOutputTokens = 4096

	// thinkingBudget is the Gemini internal-reasoning token budget.
	thinkingBudget = 1024
)

// Client is the uniform completion capability each provider implements.
type Client interface {
	// Name returns the provider's display name.
	Name() string
	// Complete issues a single bounded-time completion request.
	Complete(ctx context.Context, prompt, model string) (*models.CompletionResult, error)
	// Configured reports whether the API credential is present.
	Configured() bool
	// CredentialName names the credential env var for error messages.
	CredentialName() string
}

// ErrTimeout marks a provider call that exceeded the request timeout.
var ErrTimeout = errors.New("request timed out")

// UpstreamError carries a provider's non-2xx status and response body.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

// wrapTransportErr classifies a failed round trip, surfacing timeouts as
// ErrTimeout so callers can render them distinctly.
func wrapTransportErr(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return fmt.Errorf("%s: %w", provider, ErrTimeout)
	}
	return fmt.Errorf("%s request failed: %w", provider, err)
}
