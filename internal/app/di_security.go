package app

import (
	"fmt"

	"github.com/SmartGenzAI1/securevibe/internal/http"
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityHTTP "github.com/SmartGenzAI1/securevibe/internal/security/http"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// EventLog returns the shared bounded security event log.
func (c *Container) EventLog() *securityService.EventLog {
	c.eventLogInit.Do(func() {
		c.eventLog = securityService.NewEventLog(c.config.EventLogCapacity)
	})
	return c.eventLog
}

// Detector returns the shared attack-pattern detector. The encryption engine
// and the threat-detection middleware observe the same per-identifier table.
func (c *Container) Detector() *securityService.Detector {
	c.detectorInit.Do(func() {
		c.detector = securityService.NewDetector(securityService.DetectorConfig{
			MaxRequests:    c.config.DetectorMaxRequests,
			BurstPerSecond: c.config.DetectorBurstPerSecond,
			MaxRecords:     c.config.DetectorMaxRecords,
			RecordTTL:      c.config.DetectorRecordTTL,
		}, c.Logger())
	})
	return c.detector
}

// MasterKey returns the rotating master key seeded from SERVICE_SECRET.
func (c *Container) MasterKey() (*securityService.RotatingMasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// Engine returns the layered encryption engine.
func (c *Container) Engine() (*securityService.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// Principals returns the API client set loaded from environment variables.
func (c *Container) Principals() (*securityDomain.PrincipalSet, error) {
	var err error
	c.principalsInit.Do(func() {
		c.principals, err = securityDomain.LoadPrincipalSetFromEnv()
		if err != nil {
			c.initErrors["principals"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principals"]; exists {
		return nil, storedErr
	}
	return c.principals, nil
}

// initMasterKey creates the rotating master key from configuration.
func (c *Container) initMasterKey() (*securityService.RotatingMasterKey, error) {
	if c.config.ServiceSecret == "" {
		return nil, fmt.Errorf("SERVICE_SECRET is required")
	}

	masterKey, err := securityService.NewRotatingMasterKey(
		[]byte(c.config.ServiceSecret),
		c.config.KeyRotationInterval,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotating master key: %w", err)
	}
	return masterKey, nil
}

// initEngine wires the encryption engine with the shared detector and event log.
func (c *Container) initEngine() (*securityService.Engine, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for engine: %w", err)
	}

	alg := securityDomain.Algorithm(c.config.EncryptionAlgorithm)
	switch alg {
	case securityDomain.AESGCM, securityDomain.ChaCha20:
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	return securityService.NewEngine(
		masterKey,
		securityService.NewAEADManager(),
		alg,
		c.Detector(),
		c.EventLog(),
		c.Logger(),
	), nil
}

// initLimiters creates the request window limiter and the per-tier quota limiters.
func (c *Container) initLimiters() {
	c.limitersInit.Do(func() {
		c.requestLimiter = securityService.NewWindowLimiter(c.config.RateLimitRequests, c.config.RateLimitWindow)
		c.baseLimiter = securityService.NewWindowLimiter(c.config.QuotaBaseRequests, c.config.QuotaWindow)
		c.elevatedLimiter = securityService.NewWindowLimiter(c.config.QuotaElevatedRequests, c.config.QuotaWindow)
	})
}

// initHTTPServer creates the HTTP server with the full middleware chain.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for http server: %w", err)
	}

	principals, err := c.Principals()
	if err != nil {
		return nil, fmt.Errorf("failed to get principals for http server: %w", err)
	}

	securityMetrics, err := c.SecurityMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get security metrics for http server: %w", err)
	}

	c.initLimiters()

	deps := http.ServerDeps{
		CryptoHandler:   securityHTTP.NewCryptoHandler(engine, securityMetrics, logger),
		SecurityHandler: securityHTTP.NewSecurityHandler(engine, c.EventLog(), securityMetrics, logger),

		PerformanceMiddleware: securityHTTP.PerformanceMonitorMiddleware(
			c.config.SlowRequestThreshold, c.EventLog(), logger),
		ThreatMiddleware: securityHTTP.ThreatDetectionMiddleware(
			c.Detector(), c.requestLimiter, c.EventLog(), logger),

		UserRateLimitMiddleware: securityHTTP.UserRateLimitMiddleware(
			principals, c.baseLimiter, c.elevatedLimiter, c.EventLog(), logger),
	}

	if c.config.SignatureEnabled {
		deps.SignatureMiddleware = securityHTTP.SignatureVerificationMiddleware(
			c.config.SignatureFreshness, c.EventLog(), logger)
	}

	if provider, err := c.MetricsProvider(); err == nil && provider != nil {
		deps.MeterProvider = provider.MeterProvider()
	}

	return http.NewServer(c.config, deps, logger), nil
}
