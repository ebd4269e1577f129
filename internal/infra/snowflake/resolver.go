package snowflake

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"cortex-labs/internal/config"
	"cortex-labs/internal/domain"
	"cortex-labs/internal/infra/metrics"
)

// Strategy is one way of obtaining a session. Strategies are tried in the
// order given to the resolver; the first success wins.
type Strategy struct {
	Name string
	Dial func(ctx context.Context) (*Session, error)
}

// AmbientStrategy picks up a session injected by the hosting runtime: host
// from SNOWFLAKE_HOST, OAuth token from the runtime-mounted token file. It
// can only succeed inside that environment.
func AmbientStrategy(tokenFile string) Strategy {
	return Strategy{
		Name: "ambient",
		Dial: func(ctx context.Context) (*Session, error) {
			host := os.Getenv("SNOWFLAKE_HOST")
			if host == "" {
				return nil, errors.New("SNOWFLAKE_HOST not set")
			}
			token, err := os.ReadFile(tokenFile)
			if err != nil {
				return nil, fmt.Errorf("read token file: %w", err)
			}
			if !strings.HasPrefix(host, "https://") {
				host = "https://" + host
			}
			return &Session{
				Host:      host,
				Token:     strings.TrimSpace(string(token)),
				TokenType: "OAUTH",
				Warehouse: os.Getenv("SNOWFLAKE_WAREHOUSE"),
				Database:  os.Getenv("SNOWFLAKE_DATABASE"),
				Schema:    os.Getenv("SNOWFLAKE_SCHEMA"),
			}, nil
		},
	}
}

// ConfiguredStrategy builds a session from the named entry of the local
// secret store. Tried only after the ambient strategy fails.
func ConfiguredStrategy(cfg config.SnowflakeConfig) Strategy {
	return Strategy{
		Name: "configured",
		Dial: func(ctx context.Context) (*Session, error) {
			conn, ok := cfg.Connections[cfg.DefaultConnection]
			if !ok {
				return nil, fmt.Errorf("no %q connection in config", cfg.DefaultConnection)
			}
			return dial(ctx, ParamsFromConfig(conn))
		},
	}
}

// Resolver tries its strategies in order and caches the first success under
// a fixed key. Manual resolution from explicit params is a separate entry
// point and never part of the automatic chain.
type Resolver struct {
	strategies   []Strategy
	store        Store
	requiredKeys []string
	log          *zerolog.Logger
}

func NewResolver(store Store, requiredKeys []string, log *zerolog.Logger, strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies:   strategies,
		store:        store,
		requiredKeys: requiredKeys,
		log:          log,
	}
}

// Resolve returns the cached handle when one exists, otherwise walks the
// strategy list. All failures aggregate into a single ConnectionError that
// names the attempts and the config keys a local setup needs.
func (r *Resolver) Resolve(ctx context.Context) (*Session, error) {
	if s, ok := r.store.Get(ctx, HandleKey); ok {
		metrics.IncResolverAttempt("store", "cached")
		return s, nil
	}

	var attempts []string
	var lastErr error
	for _, st := range r.strategies {
		s, err := st.Dial(ctx)
		attempts = append(attempts, st.Name)
		if err != nil {
			metrics.IncResolverAttempt(st.Name, "fail")
			r.log.Debug().Str("strategy", st.Name).Err(err).Msg("session strategy failed")
			lastErr = err
			continue
		}
		metrics.IncResolverAttempt(st.Name, "ok")
		r.log.Info().Str("strategy", st.Name).Msg("session resolved")
		if err := r.store.Put(ctx, HandleKey, s); err != nil {
			r.log.Warn().Err(err).Msg("session cache write failed")
		}
		return s, nil
	}

	return nil, &domain.ConnectionError{
		Attempts:     attempts,
		RequiredKeys: r.requiredKeys,
		Cause:        lastErr,
	}
}

// ResolveManual dials from explicit parameters (the manual-entry form),
// verifies the handle with a test query, and caches it on success.
func (r *Resolver) ResolveManual(ctx context.Context, p Params) (*Session, error) {
	s, err := dial(ctx, p)
	if err != nil {
		metrics.IncResolverAttempt("manual", "fail")
		return nil, &domain.ConnectionError{Attempts: []string{"manual"}, Cause: err}
	}
	if err := s.Ping(ctx); err != nil {
		metrics.IncResolverAttempt("manual", "fail")
		_ = s.Close(ctx)
		return nil, &domain.ConnectionError{Attempts: []string{"manual"}, Cause: err}
	}
	metrics.IncResolverAttempt("manual", "ok")
	if err := r.store.Put(ctx, HandleKey, s); err != nil {
		r.log.Warn().Err(err).Msg("session cache write failed")
	}
	return s, nil
}

// Forget drops the cached handle so the next Resolve reconnects.
func (r *Resolver) Forget(ctx context.Context) error {
	return r.store.Delete(ctx, HandleKey)
}
