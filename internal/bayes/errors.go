package bayes

import "errors"

var (
	// ErrEmptyTrainingSet is returned when training receives zero rows.
	ErrEmptyTrainingSet = errors.New("training set is empty")

	// ErrSingleClass is returned when the training rows carry fewer than two distinct labels.
	ErrSingleClass = errors.New("training set must contain both malicious and benign rows")

	// ErrUnlabeledRecord is returned when a training row has no label.
	ErrUnlabeledRecord = errors.New("training row has no label")

	// ErrNegativeFeature is returned when a feature value is negative.
	ErrNegativeFeature = errors.New("multinomial model requires non-negative features")

	// ErrDimensionMismatch is returned when a matrix does not match the model's columns.
	ErrDimensionMismatch = errors.New("feature matrix does not match model dimensions")

	// ErrNilModel is returned when prediction is attempted without a model or vocabulary.
	ErrNilModel = errors.New("model and vocabulary are required")
)
