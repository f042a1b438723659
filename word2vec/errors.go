package word2vec

import "errors"

var (
	// ErrInvalidParams indicates training parameters outside their valid range.
	ErrInvalidParams = errors.New("invalid word2vec parameters")

	// ErrCorruptModel indicates a persisted model could not be decoded.
	ErrCorruptModel = errors.New("corrupt word2vec model")

	// ErrUnknownUpdatePolicy indicates an update policy name that is not recognized.
	ErrUnknownUpdatePolicy = errors.New("unknown update policy")
)
