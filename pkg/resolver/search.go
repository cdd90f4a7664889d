package resolver

import (
	"context"

	"github.com/pkg/errors"
)

// Prober checks if candidate exists in given storage
type Prober interface {
	Exists(ctx context.Context, c Candidate) (bool, error)
}

// ProberFunc allows using functions as Prober
type ProberFunc func(ctx context.Context, c Candidate) (bool, error)

// Exists calls f
func (f ProberFunc) Exists(ctx context.Context, c Candidate) (bool, error) {
	return f(ctx, c)
}

// Search returns first existing candidate
// It stops on the first probe error.
func Search(ctx context.Context, candidates []Candidate, p Prober) (Candidate, error) {
	for _, c := range candidates {
		ok, err := p.Exists(ctx, c)
		if err != nil {
			return Candidate{}, errors.Wrapf(err, "unable to probe %s", c.Path())
		}

		if ok {
			return c, nil
		}
	}

	return Candidate{}, ErrNotFound
}
