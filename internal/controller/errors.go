package controller

import (
	"errors"
	"fmt"

	"github.com/abhisek/iroquiz/internal/dataset"
)

var (
	// ErrBlankField matches any *ValidationError.
	ErrBlankField = errors.New("answer field is blank")

	// ErrUnavailable is returned when an action is not valid in the current state.
	ErrUnavailable = errors.New("action not available in the current state")
)

// Answer fields checked by SubmitAnswer.
const (
	FieldName   = "name"
	FieldSystem = "system"
)

// ValidationError reports a blank answer field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBlankField, e.Field)
}

func (e *ValidationError) Is(target error) bool { return target == ErrBlankField }

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	switch e.Field {
	case FieldName:
		return "Enter a color name."
	case FieldSystem:
		return "Enter a system color name."
	default:
		return "Fill in both answers."
	}
}

// LoadErrorMessage turns a loader error into user-facing text.
func LoadErrorMessage(err error) string {
	switch {
	case dataset.IsKind(err, dataset.KindEmpty):
		return "The dataset has no playable colors."
	case dataset.IsKind(err, dataset.KindMalformed):
		return "The dataset is not a list of color records."
	default:
		return "Could not load the dataset. Check the source and try again."
	}
}
