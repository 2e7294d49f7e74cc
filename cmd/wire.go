package cmd

import (
	"fmt"
	"os"

	yamldef "github.com/bnema/bip-questionnaire/internal/adapters/definition/yaml"
	summaryadapter "github.com/bnema/bip-questionnaire/internal/adapters/render/summary"
	tomlrepo "github.com/bnema/bip-questionnaire/internal/adapters/repo/toml"
	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/config"
	"github.com/bnema/bip-questionnaire/internal/logging"
	"github.com/bnema/bip-questionnaire/internal/ports"
	"go.uber.org/zap"
)

type app struct {
	service         *application.Service
	summaryRenderer func([]application.Summary, summaryadapter.RenderOptions) (string, error)
	logger          *zap.Logger
	logLevel        zap.AtomicLevel
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, level, err := logging.New(cfg.GetString(config.LogLevelKey), os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire questionnaire repository: %w", err)
	}
	logger.Debug("questionnaire store", zap.String("path", repo.Path()))

	return &app{
		service:         application.NewService(repo, yamldef.NewLoader(), ports.SystemClock{}, ports.UUIDGenerator{}, logger),
		summaryRenderer: summaryadapter.Render,
		logger:          logger,
		logLevel:        level,
	}, nil
}
