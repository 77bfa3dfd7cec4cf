package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unilancer-labs/unilancer-api/internal/observability"
	"github.com/unilancer-labs/unilancer-api/pkg/challenge"
)

// Fraud gate rejection reasons. They are logged internally; clients only see
// a generic message so scoring details are not revealed to an adversary.
const (
	ReasonAccepted           = "accepted"
	ReasonTokenUnavailable   = "token_unavailable"
	ReasonVerificationFailed = "verification_failed"
	ReasonLowScore           = "low_score"
)

// GateDecision is the outcome of one fraud gate evaluation.
type GateDecision struct {
	Valid  bool
	Score  float64
	Reason string
}

// FraudGate decides whether a submission is likely automated. The gate fails
// permissively: infrastructure failure rejects with a generic reason rather
// than crashing, and thresholds are deliberately low so a broken widget does
// not trap genuine visitors.
type FraudGate interface {
	ValidateSubmission(ctx context.Context, token, action, remoteIP string, minScore float64) GateDecision
	ValidateWithProvider(ctx context.Context, provider challenge.TokenProvider, action, remoteIP string, minScore float64) GateDecision
}

type fraudGate struct {
	verifier    challenge.Verifier
	redis       *redis.Client
	replayTTL   time.Duration
	waitTimeout time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewFraudGate constructs the gate. redisClient may be nil, in which case the
// token replay guard is skipped.
func NewFraudGate(verifier challenge.Verifier, redisClient *redis.Client, waitTimeout time.Duration, logger zerolog.Logger) FraudGate {
	if waitTimeout <= 0 {
		waitTimeout = 5 * time.Second
	}
	return &fraudGate{
		verifier:    verifier,
		redis:       redisClient,
		replayTTL:   2 * time.Minute,
		waitTimeout: waitTimeout,
		logger:      logger.With().Str("component", "fraud_gate").Logger(),
		tracer:      otel.Tracer("github.com/unilancer-labs/unilancer-api/internal/service/fraudgate"),
	}
}

func (g *fraudGate) ValidateSubmission(ctx context.Context, token, action, remoteIP string, minScore float64) GateDecision {
	ctx, span := g.tracer.Start(ctx, "fraudgate.validate", trace.WithAttributes(
		attribute.String("gate.action", action),
		attribute.Float64("gate.min_score", minScore),
	))
	defer span.End()

	decision := g.evaluate(ctx, token, action, remoteIP, minScore)

	observability.FraudGateDecisions().WithLabelValues(action, decision.Reason).Inc()
	span.SetAttributes(
		attribute.Bool("gate.valid", decision.Valid),
		attribute.String("gate.reason", decision.Reason),
	)

	if !decision.Valid {
		g.logger.Info().
			Str("action", action).
			Str("reason", decision.Reason).
			Float64("score", decision.Score).
			Msg("submission rejected by fraud gate")
	}

	return decision
}

// ValidateWithProvider pulls a token from the challenge widget first, waiting
// at most the configured timeout for it to become ready. Acquisition failure
// degrades to a token_unavailable rejection instead of hanging.
func (g *fraudGate) ValidateWithProvider(ctx context.Context, provider challenge.TokenProvider, action, remoteIP string, minScore float64) GateDecision {
	tokenCtx, cancel := context.WithTimeout(ctx, g.waitTimeout)
	defer cancel()

	token, err := provider.Token(tokenCtx, action)
	if err != nil {
		g.logger.Warn().Err(err).Str("action", action).Msg("challenge token unavailable")
		observability.FraudGateDecisions().WithLabelValues(action, ReasonTokenUnavailable).Inc()
		return GateDecision{Reason: ReasonTokenUnavailable}
	}

	return g.ValidateSubmission(ctx, token, action, remoteIP, minScore)
}

func (g *fraudGate) evaluate(ctx context.Context, token, action, remoteIP string, minScore float64) GateDecision {
	if token == "" {
		return GateDecision{Reason: ReasonTokenUnavailable}
	}

	if g.redis != nil {
		key := fmt.Sprintf("fraudgate:token:%s", token)
		fresh, err := g.redis.SetNX(ctx, key, 1, g.replayTTL).Result()
		if err != nil {
			// Replay guard is advisory; a cache outage must not close the gate.
			g.logger.Warn().Err(err).Msg("token replay guard unavailable")
		} else if !fresh {
			return GateDecision{Reason: ReasonVerificationFailed}
		}
	}

	verifyCtx, cancel := context.WithTimeout(ctx, g.waitTimeout)
	defer cancel()

	result, err := g.verifier.Verify(verifyCtx, token, remoteIP)
	if err != nil {
		g.logger.Warn().Err(err).Str("action", action).Msg("challenge verification failed")
		return GateDecision{Reason: ReasonVerificationFailed}
	}

	if !result.Success {
		return GateDecision{Score: result.Score, Reason: ReasonVerificationFailed}
	}
	if result.Action != "" && result.Action != action {
		return GateDecision{Score: result.Score, Reason: ReasonVerificationFailed}
	}
	if result.Score < minScore {
		return GateDecision{Score: result.Score, Reason: ReasonLowScore}
	}

	return GateDecision{Valid: true, Score: result.Score, Reason: ReasonAccepted}
}
