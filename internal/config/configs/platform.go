package configs

import (
	"fmt"

	"crowdfund/internal/core/domain"
)

// Platform binds the deployment: the registry deployer admitted as first
// admin, the factory identity campaign custody addresses derive from, and
// the fee every new campaign is created with.
type Platform struct {
	Deployer       string `env:"DEPLOYER,required"`
	FactoryAddress string `env:"FACTORY_ADDRESS,required"`
	FeeSink        string `env:"FEE_SINK,required"`
	// FeeBps is the platform fee in basis points, 0 to 10000.
	FeeBps uint16 `env:"FEE_BPS" envDefault:"250"`
}

// Validate checks every address and the fee range.
func (c Platform) Validate() error {
	for name, v := range map[string]string{
		"deployer":        c.Deployer,
		"factory address": c.FactoryAddress,
		"fee sink":        c.FeeSink,
	} {
		if _, err := domain.ParseAddress(v); err != nil {
			return fmt.Errorf("platform %s: %w", name, err)
		}
	}
	if c.FeeBps > domain.MaxFeeBps {
		return fmt.Errorf("platform fee %d bps exceeds %d", c.FeeBps, domain.MaxFeeBps)
	}
	return nil
}

// Addresses returns the parsed deployer, factory and fee sink. Call Validate
// first.
func (c Platform) Addresses() (deployer, factory, feeSink domain.Address) {
	deployer, _ = domain.ParseAddress(c.Deployer)
	factory, _ = domain.ParseAddress(c.FactoryAddress)
	feeSink, _ = domain.ParseAddress(c.FeeSink)
	return deployer, factory, feeSink
}
