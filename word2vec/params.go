package word2vec

import (
	"fmt"
	"strings"
)

// Params holds the training hyperparameters of a Model.
type Params struct {
	// Dim is the width of every word vector.
	Dim int
	// Window is the maximum distance between the target word and a context word.
	Window int
	// Negative is the number of noise words drawn per training example.
	Negative int
	// Epochs is the number of passes over the sentences in each Train call.
	Epochs int
	// MinCount is the number of occurrences a word needs before it joins the vocabulary.
	MinCount int
	// Alpha is the initial learning rate; it decays linearly to MinAlpha.
	Alpha float32
	// MinAlpha is the final learning rate.
	MinAlpha float32
	// Seed makes initialization and sampling reproducible.
	Seed uint64
}

// DefaultParams returns the customary Word2Vec defaults with 100-d vectors.
func DefaultParams() Params {
	return Params{
		Dim:      100,
		Window:   5,
		Negative: 5,
		Epochs:   5,
		MinCount: 1,
		Alpha:    0.025,
		MinAlpha: 0.0001,
		Seed:     1,
	}
}

// Validate checks that the parameters can train a model.
func (p Params) Validate() error {
	switch {
	case p.Dim < 1:
		return fmt.Errorf("%w: Dim must be positive", ErrInvalidParams)
	case p.Window < 1:
		return fmt.Errorf("%w: Window must be positive", ErrInvalidParams)
	case p.Negative < 1:
		return fmt.Errorf("%w: Negative must be positive", ErrInvalidParams)
	case p.Epochs < 1:
		return fmt.Errorf("%w: Epochs must be positive", ErrInvalidParams)
	case p.MinCount < 1:
		return fmt.Errorf("%w: MinCount must be positive", ErrInvalidParams)
	case p.Alpha <= 0 || p.MinAlpha < 0 || p.MinAlpha > p.Alpha:
		return fmt.Errorf("%w: need 0 <= MinAlpha <= Alpha and Alpha > 0", ErrInvalidParams)
	}
	return nil
}

// UpdatePolicy controls when a query triggers incremental training.
type UpdatePolicy int

const (
	// UpdateOnNewTokens trains only when the query contains tokens the model has never seen.
	UpdateOnNewTokens UpdatePolicy = iota
	// UpdateAlways trains on the query for every comparison.
	UpdateAlways
)

// String returns the configuration name of the policy.
func (p UpdatePolicy) String() string {
	switch p {
	case UpdateOnNewTokens:
		return "new_tokens"
	case UpdateAlways:
		return "always"
	default:
		return fmt.Sprintf("UpdatePolicy(%d)", int(p))
	}
}

// ParseUpdatePolicy converts a configuration name into an UpdatePolicy.
func ParseUpdatePolicy(name string) (UpdatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "new_tokens", "new-tokens":
		return UpdateOnNewTokens, nil
	case "always":
		return UpdateAlways, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUpdatePolicy, name)
	}
}
