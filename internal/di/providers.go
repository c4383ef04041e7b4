package di

import (
	"pbcheck/internal/persistence"
	"pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/providers"
	"pbcheck/internal/structures"
)

func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideCompressor(conf *structures.Config) (interfaces.CompressorInterface, func(), error) {
	compressor, err := persistence.NewCompressor(conf)
	if err != nil {
		return nil, nil, err
	}
	return compressor, compressor.Close, nil
}
