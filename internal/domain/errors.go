package domain

import "errors"

var (
	ErrQuestionnaireNotFound  = errors.New("questionnaire not found")
	ErrQuestionnaireSubmitted = errors.New("questionnaire already submitted")
	ErrKindMismatch           = errors.New("questionnaire kind does not support this operation")
	ErrIncomplete             = errors.New("questionnaire is incomplete")
	ErrInvalidDefinition      = errors.New("invalid questionnaire definition")
)
