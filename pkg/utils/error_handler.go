package utils

import (
	"fmt"
)

func ErrorHandler(err error, message string) error {
	if err != nil {
		Logger.WithError(err).Error(message)
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}
