// Package lookup orchestrates a full identifier resolution: canonicalize,
// fetch the registry profile and state registrations concurrently, apply the
// headquarters fallback for regime purposes and normalize the result.
package lookup

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adapta-br/consulta-cnpj/internal/cache"
	"github.com/adapta-br/consulta-cnpj/internal/cnpj"
	"github.com/adapta-br/consulta-cnpj/internal/metrics"
	"github.com/adapta-br/consulta-cnpj/internal/regime"
	"github.com/adapta-br/consulta-cnpj/internal/resilience"
	"github.com/adapta-br/consulta-cnpj/internal/status"
	"github.com/adapta-br/consulta-cnpj/pkg/brasilapi"
	"github.com/adapta-br/consulta-cnpj/pkg/cnpja"
	"github.com/adapta-br/consulta-cnpj/pkg/provider"
)

// ErrInvalidInput is returned when the cleaned input is not exactly 14
// digits. No network call is made in that case.
var ErrInvalidInput = eris.New("lookup: identifier must have exactly 14 digits")

// Result is the consolidated profile handed to consumers. It is plain data;
// rendering is someone else's problem.
type Result struct {
	// Identifier is the cleaned 14-digit input that was queried.
	Identifier string
	// Profile is the registry profile of the queried identifier (never the
	// headquarters profile).
	Profile *brasilapi.Company
	// Status is the normalized cadastral status of the profile.
	Status status.Status
	// Regime is the resolved tax-regime label.
	Regime string
	// RegimeSource is the identifier whose profile resolved the regime —
	// the headquarters identifier when the branch fallback kicked in.
	RegimeSource string
	// Registrations is the state-registration list. Empty and unavailable
	// are different states; check RegistrationsUnavailable.
	Registrations []cnpja.Registration
	// RegistrationsUnavailable marks that the registration section could
	// not be fetched. The rest of the result is still valid.
	RegistrationsUnavailable bool
	// QueriedAt is when the query resolved.
	QueriedAt time.Time
}

// Options wires a Service.
type Options struct {
	Registry brasilapi.Client
	States   cnpja.Client
	// Cache memoizes provider outcomes. Nil gets a fresh 1h cache.
	Cache *cache.Cache
	// RegistryBreaker / StatesBreaker optionally guard each provider in
	// long-running mode. Nil disables the breaker.
	RegistryBreaker *resilience.CircuitBreaker
	StatesBreaker   *resilience.CircuitBreaker
	// Now is injectable for regime-resolution tests.
	Now func() time.Time
}

// Service resolves identifiers against both providers.
type Service struct {
	registry        brasilapi.Client
	states          cnpja.Client
	cache           *cache.Cache
	registryBreaker *resilience.CircuitBreaker
	statesBreaker   *resilience.CircuitBreaker
	now             func() time.Time
}

// New creates a lookup service.
func New(opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.New(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		registry:        opts.Registry,
		states:          opts.States,
		cache:           opts.Cache,
		registryBreaker: opts.RegistryBreaker,
		statesBreaker:   opts.StatesBreaker,
		now:             opts.Now,
	}
}

// Lookup resolves raw input into a consolidated Result.
//
// At most three upstream calls are issued: the main profile, the optional
// headquarters profile and the state-registration list. The registration
// call runs concurrently with the profile path; its failure never fails the
// query, it only marks the registration section unavailable. A failed
// headquarters lookup is fully silent and falls back to the branch profile.
func (s *Service) Lookup(ctx context.Context, raw string) (*Result, error) {
	digits := cnpj.Clean(raw)
	if !cnpj.IsValid(digits) {
		metrics.Lookups.WithLabelValues("invalid_input").Inc()
		return nil, eris.Wrapf(ErrInvalidInput, "got %d digits", len(digits))
	}

	var (
		profile      *brasilapi.Company
		regimeSource *brasilapi.Company
		regimeID     string

		regs        []cnpja.Registration
		regsFailure bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.fetchCompany(gctx, digits)
		if err != nil {
			return err
		}
		profile = p
		regimeSource, regimeID = s.selectRegimeSource(gctx, digits, p)
		return nil
	})

	g.Go(func() error {
		r, err := s.fetchRegistrations(gctx, digits)
		if err != nil {
			// Non-fatal: the profile result is still delivered.
			zap.L().Warn("state registrations unavailable",
				zap.String("cnpj", digits),
				zap.Error(err),
			)
			regsFailure = true
			return nil
		}
		regs = r
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.Lookups.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	metrics.Lookups.WithLabelValues("success").Inc()
	return &Result{
		Identifier:               digits,
		Profile:                  profile,
		Status:                   status.Normalize(profile.RegistryStatus),
		Regime:                   regime.Resolve(regimeSource, s.now()),
		RegimeSource:             regimeID,
		Registrations:            regs,
		RegistrationsUnavailable: regsFailure,
		QueriedAt:                s.now(),
	}, nil
}

// selectRegimeSource applies the branch-to-headquarters fallback: when the
// queried identifier is a branch, the headquarters profile is authoritative
// for regime purposes. Any failure of the headquarters lookup silently keeps
// the branch profile.
func (s *Service) selectRegimeSource(ctx context.Context, digits string, p *brasilapi.Company) (*brasilapi.Company, string) {
	hq := cnpj.ToHeadquarters(digits)
	if hq == digits {
		return p, digits
	}

	hqProfile, err := s.fetchCompany(ctx, hq)
	if err != nil {
		zap.L().Debug("headquarters profile unavailable, using branch regime data",
			zap.String("branch", digits),
			zap.String("headquarters", hq),
			zap.Error(err),
		)
		return p, digits
	}
	return hqProfile, hq
}

func (s *Service) fetchCompany(ctx context.Context, id string) (*brasilapi.Company, error) {
	return cache.Lookup(ctx, s.cache, provider.NameBrasilAPI, id, func(ctx context.Context) (*brasilapi.Company, error) {
		if err := allow(s.registryBreaker); err != nil {
			metrics.ProviderRequests.WithLabelValues(provider.NameBrasilAPI, "circuit_open").Inc()
			return nil, err
		}
		c, err := s.registry.Company(ctx, id)
		record(s.registryBreaker, err)
		metrics.ProviderRequests.WithLabelValues(provider.NameBrasilAPI, outcomeLabel(err)).Inc()
		return c, err
	})
}

func (s *Service) fetchRegistrations(ctx context.Context, id string) ([]cnpja.Registration, error) {
	return cache.Lookup(ctx, s.cache, provider.NameCNPJA, id, func(ctx context.Context) ([]cnpja.Registration, error) {
		if err := allow(s.statesBreaker); err != nil {
			metrics.ProviderRequests.WithLabelValues(provider.NameCNPJA, "circuit_open").Inc()
			return nil, err
		}
		r, err := s.states.Registrations(ctx, id)
		record(s.statesBreaker, err)
		metrics.ProviderRequests.WithLabelValues(provider.NameCNPJA, outcomeLabel(err)).Inc()
		return r, err
	})
}

func allow(cb *resilience.CircuitBreaker) error {
	if cb == nil {
		return nil
	}
	if err := cb.Allow(); err != nil {
		return eris.Wrap(provider.ErrUnavailable, "circuit open")
	}
	return nil
}

func record(cb *resilience.CircuitBreaker, err error) {
	if cb == nil {
		return
	}
	cb.Record(err, func(e error) bool {
		return eris.Is(e, provider.ErrUnavailable)
	})
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case eris.Is(err, provider.ErrNotFound):
		return "not_found"
	case eris.Is(err, provider.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
