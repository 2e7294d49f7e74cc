package application

import "github.com/bnema/bip-questionnaire/internal/domain"

type CreateCommand struct {
	Definition domain.Definition
}

type AllocateCommand struct {
	ID       domain.QuestionnaireID
	OptionID domain.OptionID
	Points   int
}

type StepCommand struct {
	ID       domain.QuestionnaireID
	OptionID domain.OptionID
}

type PlaceCommand struct {
	ID     domain.QuestionnaireID
	ItemID domain.ItemID
	Effort domain.Level
	Impact domain.Level
}

type RemoveCommand struct {
	ID     domain.QuestionnaireID
	ItemID domain.ItemID
}

// Outcome reports the state after a gesture. Changed is false when the
// engine declined the request; that is not an error.
type Outcome struct {
	Questionnaire domain.Questionnaire
	Changed       bool
}
