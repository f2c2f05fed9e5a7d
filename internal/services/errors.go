package services

import (
	apperrors "indicli/internal/errors"
)

func noDatasetErr() error {
	return apperrors.NewNotFoundError("no dataset loaded")
}
