package discord

import (
	"errors"
	"grannysporch/models"

	govalidator "github.com/go-playground/validator/v10"
)

var validate = govalidator.New(govalidator.WithRequiredStructEnabled())

// Validate checks the preconditions of a send. A missing webhook is reported
// ahead of missing content.
func Validate(req models.SendRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs govalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	reason := ErrEmptyContent
	for _, fe := range fieldErrs {
		if fe.StructField() == "WebhookURL" {
			reason = ErrMissingWebhook
			break
		}
	}
	return &ValidationError{Reason: reason}
}
