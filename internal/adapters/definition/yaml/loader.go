package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/bnema/bip-questionnaire/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct{}

var _ ports.DefinitionLoader = Loader{}

func NewLoader() Loader {
	return Loader{}
}

func (Loader) Load(ctx context.Context, path string) (domain.Definition, error) {
	if err := ctx.Err(); err != nil {
		return domain.Definition{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("read definition file: %w", err)
	}

	return Decode(bytes.NewReader(data))
}

// Decode parses a single definition document and validates it.
func Decode(r io.Reader) (domain.Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc definitionDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Definition{}, fmt.Errorf("%w: empty document", domain.ErrInvalidDefinition)
		}
		return domain.Definition{}, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
	}

	def := doc.toDomain()
	if err := def.Validate(); err != nil {
		return domain.Definition{}, err
	}

	return def, nil
}
