package service

import (
	"context"
	"fmt"

	"go-vnpay/internal/paygate/data"
)

const defaultReviewFlagsLimit = 100

type ReviewFlagRepository interface {
	GetReviewFlags(ctx context.Context, limit int) ([]data.ReviewFlag, error)
}

type Reviews struct {
	repository ReviewFlagRepository
}

func NewReviews(repository ReviewFlagRepository) *Reviews {
	return &Reviews{
		repository: repository,
	}
}

func (r *Reviews) GetReviewFlags(ctx context.Context, limit int) ([]data.ReviewFlag, error) {
	if limit <= 0 {
		limit = defaultReviewFlagsLimit
	}
	flags, err := r.repository.GetReviewFlags(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("getting review flags failed: %w", err)
	}
	return flags, nil
}
