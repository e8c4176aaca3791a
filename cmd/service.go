package main

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/adapta-br/consulta-cnpj/internal/cache"
	"github.com/adapta-br/consulta-cnpj/internal/lookup"
	"github.com/adapta-br/consulta-cnpj/internal/resilience"
	"github.com/adapta-br/consulta-cnpj/pkg/brasilapi"
	"github.com/adapta-br/consulta-cnpj/pkg/cnpja"
)

// newService wires the lookup service from the loaded configuration.
func newService() *lookup.Service {
	registry := brasilapi.NewClient(
		brasilapi.WithBaseURL(cfg.BrasilAPI.BaseURL),
		brasilapi.WithTimeout(time.Duration(cfg.BrasilAPI.TimeoutSecs)*time.Second),
		brasilapi.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.BrasilAPI.RatePerSec), cfg.BrasilAPI.RateBurst)),
	)

	states := cnpja.NewClient(
		cnpja.WithBaseURL(cfg.CNPJA.BaseURL),
		cnpja.WithTimeout(time.Duration(cfg.CNPJA.TimeoutSecs)*time.Second),
		cnpja.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.CNPJA.RatePerSec), cfg.CNPJA.RateBurst)),
		cnpja.WithRetry(cfg.CNPJA.MaxRetries, time.Duration(cfg.CNPJA.RetryBaseSecs)*time.Second),
	)

	opts := lookup.Options{
		Registry: registry,
		States:   states,
		Cache:    cache.New(time.Duration(cfg.Cache.TTLMinutes) * time.Minute),
	}
	if cfg.Breaker.Enabled {
		reset := time.Duration(cfg.Breaker.ResetTimeoutSecs) * time.Second
		opts.RegistryBreaker = resilience.NewCircuitBreaker(cfg.Breaker.FailureThreshold, reset)
		opts.StatesBreaker = resilience.NewCircuitBreaker(cfg.Breaker.FailureThreshold, reset)
	}

	return lookup.New(opts)
}
