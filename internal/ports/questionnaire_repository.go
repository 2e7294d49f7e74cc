package ports

import (
	"context"

	"github.com/bnema/bip-questionnaire/internal/domain"
)

type QuestionnaireRepository interface {
	GetByID(ctx context.Context, id domain.QuestionnaireID) (domain.Questionnaire, error)
	List(ctx context.Context) ([]domain.Questionnaire, error)
	Save(ctx context.Context, questionnaire domain.Questionnaire) error
	Delete(ctx context.Context, id domain.QuestionnaireID) error
}
