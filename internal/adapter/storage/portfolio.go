package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

// PortfolioFile reads portfolio records from a JSON file maintained by
// the wallet side of the platform. The file is reread on every lookup
// so external edits are picked up without a restart.
type PortfolioFile struct {
	path string
	log  *logger.Logger
}

func NewPortfolioFile(path string, log *logger.Logger) *PortfolioFile {
	return &PortfolioFile{path: path, log: log}
}

func (p *PortfolioFile) Get(ctx context.Context, id string) (*model.Portfolio, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolios: %w", err)
	}

	var portfolios []model.Portfolio
	if err := json.Unmarshal(data, &portfolios); err != nil {
		return nil, fmt.Errorf("decode portfolios: %w", err)
	}

	for i := range portfolios {
		if portfolios[i].ID != id {
			continue
		}
		if err := portfolios[i].Validate(); err != nil {
			return nil, fmt.Errorf("portfolio %s: %w", id, err)
		}
		return &portfolios[i], nil
	}

	return nil, fmt.Errorf("%w: %s", model.ErrPortfolioNotFound, id)
}
