package transaction

import (
	"context"
	"errors"
	"fmt"
)

// Strategy names one of the two listing implementations. There is no
// implicit default: callers pick explicitly.
type Strategy string

const (
	// StrategyRelational joins in Postgres, the source of truth.
	StrategyRelational Strategy = "relational"
	// StrategyIndex fans out over the search store and stitches in
	// memory; eventually consistent with the relational store.
	StrategyIndex Strategy = "index"
)

var ErrUnknownStrategy = errors.New("unknown listing strategy")

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

//go:generate mockgen -source=service.go -destination=lister_mock.go -package=transaction
type Lister interface {
	List(ctx context.Context, page, pageSize int) (*Page, error)
}

// Service routes listing requests to the strategy the caller named.
// Both strategies honor the same output contract.
type Service struct {
	relational Lister
	index      Lister
}

func NewService(relational, index Lister) *Service {
	return &Service{relational: relational, index: index}
}

func (s *Service) List(ctx context.Context, strategy Strategy, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var lister Lister

	switch strategy {
	case StrategyRelational:
		lister = s.relational
	case StrategyIndex:
		lister = s.index
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	return lister.List(ctx, page, pageSize)
}
