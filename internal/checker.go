package internal

import (
	"context"
	"pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/providers"
	"pbcheck/internal/services"
)

// Checker runs a single load or save against the store and exits. It backs the CLI subcommands.
type Checker struct {
	service services.CheckerServiceInterface
	store   interfaces.KeyValueStore
	logger  providers.Logger
}

func NewChecker(service services.CheckerServiceInterface, store interfaces.KeyValueStore, logger providers.Logger) *Checker {
	return &Checker{
		service: service,
		store:   store,
		logger:  logger,
	}
}

func (c *Checker) Check(ctx context.Context, sink services.Sink) error {
	if err := c.store.Restore(); err != nil {
		c.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	c.service.Load(ctx, sink)
	return c.store.Persist()
}

func (c *Checker) Save(white []string, powerball string, sink services.Sink) error {
	if err := c.store.Restore(); err != nil {
		c.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if err := c.service.SubmitSelection(white, powerball, sink); err != nil {
		return err
	}
	return c.store.Persist()
}
