package usecase

import (
	"errors"

	"github.com/hszk-dev/gotube/internal/apperrors"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

var invalidArgumentErrors = []error{
	model.ErrEmptyTitle,
	model.ErrEmptyDescription,
	model.ErrInvalidOwnerID,
	model.ErrTitleTooLong,
	model.ErrMissingAsset,
	model.ErrDuplicateAssetID,
	model.ErrEmptyVideoPatch,
	model.ErrNegativeDuration,
	model.ErrEmptyContent,
	model.ErrInvalidVideoID,
	model.ErrInvalidTarget,
	model.ErrInvalidLikedBy,
	model.ErrInvalidPage,
	model.ErrInvalidPageSize,
	model.ErrInvalidSortField,
	model.ErrInvalidSortDirection,
}

var notFoundErrors = []error{
	repository.ErrVideoNotFound,
	repository.ErrCommentNotFound,
	repository.ErrUserNotFound,
	repository.ErrPlaylistNotFound,
}

// classify converts a domain or store error into an *apperrors.Error.
// Errors that are already classified pass through untouched.
func classify(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	for _, target := range invalidArgumentErrors {
		if errors.Is(err, target) {
			return apperrors.Wrap(err, apperrors.KindInvalidArgument, target.Error())
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return apperrors.Wrap(err, apperrors.KindNotFound, target.Error())
		}
	}
	if errors.Is(err, repository.ErrDuplicateVideo) || errors.Is(err, repository.ErrDuplicateLike) {
		return apperrors.Wrap(err, apperrors.KindConflict, message)
	}

	return apperrors.Upstream(err, message)
}

func invalid(err error) error {
	return apperrors.Wrap(err, apperrors.KindInvalidArgument, err.Error())
}
