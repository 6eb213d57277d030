package api

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ProbeReadiness checks that the server is initialized and the node answers.
func (s *Server) ProbeReadiness(ctx context.Context) []error {
	if !s.Ready() {
		return []error{errors.New("server is not fully initialized")}
	}

	ctx, cancel := withTimeout(ctx, s.Config.Management.ReadinessTimeout)
	defer cancel()

	if err := s.Kinetix.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Readiness probe failed, node does not answer")
		return []error{errors.Wrap(err, "node")}
	}

	return nil
}

// ProbeLiveness additionally reads the oracle price to check that the bound contract answers.
func (s *Server) ProbeLiveness(ctx context.Context) []error {
	if errs := s.ProbeReadiness(ctx); len(errs) > 0 {
		return errs
	}

	ctx, cancel := withTimeout(ctx, s.Config.Management.LivenessTimeout)
	defer cancel()

	if _, err := s.Kinetix.GetEthPrice(ctx); err != nil {
		log.Warn().Err(err).Msg("Liveness probe failed, contract does not answer")
		return []error{errors.Wrap(err, "contract")}
	}

	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
