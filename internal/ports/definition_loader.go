package ports

import (
	"context"

	"github.com/bnema/bip-questionnaire/internal/domain"
)

type DefinitionLoader interface {
	Load(ctx context.Context, path string) (domain.Definition, error)
}
