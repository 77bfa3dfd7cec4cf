// Package challenge talks to a reCAPTCHA-style bot challenge service: the
// browser widget issues single-use tokens which are exchanged server-side for
// a probability score in [0,1].
package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenProvider obtains a single-use token scoped to an action tag. In
// production the token arrives from the browser widget with the form payload;
// the interface exists so the gate can be exercised without a browser.
type TokenProvider interface {
	Token(ctx context.Context, action string) (string, error)
}

// Result is the verification endpoint's answer for one token.
type Result struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier exchanges tokens for scores.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (Result, error)
}

// Config for the HTTP verifier.
type Config struct {
	VerifyURL string
	Secret    string
	Timeout   time.Duration
}

type httpVerifier struct {
	config Config
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPVerifier constructs a verifier against the challenge service. The
// timeout bounds the whole exchange; the gate degrades to a rejection instead
// of hanging when the service is slow or down.
func NewHTTPVerifier(config Config, logger zerolog.Logger) (Verifier, error) {
	if config.VerifyURL == "" {
		return nil, fmt.Errorf("challenge verify url must not be empty")
	}
	if config.Secret == "" {
		return nil, fmt.Errorf("challenge secret must not be empty")
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	return &httpVerifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With().Str("component", "challenge_verifier").Logger(),
	}, nil
}

func (v *httpVerifier) Verify(ctx context.Context, token, remoteIP string) (Result, error) {
	form := url.Values{}
	form.Set("secret", v.config.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("challenge verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("challenge verification returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("invalid challenge verification response: %w", err)
	}

	if len(result.ErrorCodes) > 0 {
		v.logger.Debug().Strs("error_codes", result.ErrorCodes).Msg("challenge verification reported errors")
	}

	return result, nil
}
