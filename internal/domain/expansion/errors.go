package expansion

import "errors"

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError rejects a submission before any store call. Field names the
// offending input; Message is shown to the user next to it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// User-facing messages.
const (
	msgNameRequired     = "Bitte einen Namen angeben"
	msgLocationRequired = "Bitte einen Ort angeben"
	msgInvalidDate      = "Ungültiges Datum"
	msgEndBeforeStart   = "Das Enddatum darf nicht vor dem Startdatum liegen"
	msgRangeTooLong     = "Der Zeitraum ist zu lang"
	msgInvalidTime      = "Ungültige Uhrzeit"
	msgEndTimeOrder     = "Die Endzeit muss nach der Startzeit liegen"
	msgNoteRequired     = "Die Notiz darf nicht leer sein"
	msgEmptySelection   = "Bitte mindestens einen Tag auswählen"
	msgSelectionTooLong = "Der gewählte Zeitraum ist zu lang"
)
