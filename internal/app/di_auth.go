package app

import (
	"fmt"

	authRepository "github.com/edgegate/edgegate/internal/auth/repository"
	authService "github.com/edgegate/edgegate/internal/auth/service"
	authUseCase "github.com/edgegate/edgegate/internal/auth/usecase"
)

// CredentialRepository returns the credential repository for the configured
// database driver.
func (c *Container) CredentialRepository() (authUseCase.CredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["credentialRepo"] = fmt.Errorf(
				"failed to get database for credential repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.credentialRepo = authRepository.NewMySQLCredentialRepository(db)
		case "postgres":
			c.credentialRepo = authRepository.NewPostgreSQLCredentialRepository(db)
		default:
			c.initErrors["credentialRepo"] = fmt.Errorf(
				"unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// SecretService returns the credential secret service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// CapabilitySigner returns the pre-signed URL signer.
func (c *Container) CapabilitySigner() (authService.CapabilitySigner, error) {
	c.capabilitySignerInit.Do(func() {
		if c.config.SigningSecret == "" {
			c.initErrors["capabilitySigner"] = fmt.Errorf("SIGNING_SECRET must be configured")
			return
		}

		signer, err := authService.NewCapabilitySigner(
			[]byte(c.config.SigningSecret),
			c.config.PresignMaxTTL,
			c.config.ClockSkew,
		)
		if err != nil {
			c.initErrors["capabilitySigner"] = fmt.Errorf("failed to create capability signer: %w", err)
			return
		}
		c.capabilitySigner = signer
	})
	if storedErr, exists := c.initErrors["capabilitySigner"]; exists {
		return nil, storedErr
	}
	return c.capabilitySigner, nil
}

// NonceCache returns the bounded single-use nonce replay cache.
func (c *Container) NonceCache() authService.NonceCache {
	c.nonceCacheInit.Do(func() {
		c.nonceCache = authService.NewNonceCache(c.config.NonceCacheSize)
	})
	return c.nonceCache
}

// GateUseCase returns the authorization gate.
func (c *Container) GateUseCase() (authUseCase.GateUseCase, error) {
	c.gateUseCaseInit.Do(func() {
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["gateUseCase"] = fmt.Errorf(
				"failed to get credential repository for gate use case: %w", err)
			return
		}

		signer, err := c.CapabilitySigner()
		if err != nil {
			c.initErrors["gateUseCase"] = fmt.Errorf(
				"failed to get capability signer for gate use case: %w", err)
			return
		}

		gate, err := authUseCase.NewGateUseCase(
			credentialRepo, c.SecretService(), signer, c.NonceCache(),
		)
		if err != nil {
			c.initErrors["gateUseCase"] = fmt.Errorf("failed to create gate use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["gateUseCase"] = fmt.Errorf(
				"failed to get business metrics for gate use case: %w", err)
			return
		}

		c.gateUseCase = authUseCase.NewGateUseCaseWithMetrics(gate, businessMetrics)
	})
	if storedErr, exists := c.initErrors["gateUseCase"]; exists {
		return nil, storedErr
	}
	return c.gateUseCase, nil
}

// CredentialUseCase returns the credential management use case.
func (c *Container) CredentialUseCase() (authUseCase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["credentialUseCase"] = fmt.Errorf(
				"failed to get tx manager for credential use case: %w", err)
			return
		}

		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["credentialUseCase"] = fmt.Errorf(
				"failed to get credential repository for credential use case: %w", err)
			return
		}

		useCase := authUseCase.NewCredentialUseCase(txManager, credentialRepo, c.SecretService())

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["credentialUseCase"] = fmt.Errorf(
				"failed to get business metrics for credential use case: %w", err)
			return
		}

		c.credentialUseCase = authUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}
