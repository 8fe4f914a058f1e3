package service

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apperrors "milkdelivery/internal/errors"
	"milkdelivery/internal/metrics"
)

// writeLog logs and counts the outcome of a write.
type writeLog struct {
	recorder metrics.WriteRecorder
}

func newWriteLog(recorder metrics.WriteRecorder) writeLog {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return writeLog{recorder: recorder}
}

func (w writeLog) done(entity, operation string, fields logrus.Fields, err error) {
	entry := logrus.WithFields(fields).WithFields(logrus.Fields{
		"entity":    entity,
		"operation": operation,
	})

	switch {
	case err == nil:
		w.recorder.RecordWrite(entity, operation, metrics.OutcomeOK)
		entry.Info("write committed")
	case isClientError(err):
		w.recorder.RecordWrite(entity, operation, metrics.OutcomeRejected)
		entry.WithField("error", err.Error()).Warn("write rejected")
	default:
		w.recorder.RecordWrite(entity, operation, metrics.OutcomeFailed)
		entry.WithField("error", err.Error()).Error("write failed")
	}
}

func isClientError(err error) bool {
	var validationErr *apperrors.ValidationError
	var constraintErr *apperrors.ConstraintError
	return errors.As(err, &validationErr) ||
		errors.As(err, &constraintErr) ||
		errors.Is(err, apperrors.ErrUserNotFound) ||
		errors.Is(err, apperrors.ErrCategoryNotFound) ||
		errors.Is(err, apperrors.ErrProductNotFound)
}

// notFound replaces gorm.ErrRecordNotFound with the entity's sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
