package service

import (
	"context"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
)

// NetworkSummary describes a member's downline as seen through the closure
// table.
type NetworkSummary struct {
	TotalDownline int64                   `json:"totalDownline"`
	ByDepth       []repository.DepthCount `json:"byDepth"`
}

type NetworkService interface {
	Summary(ctx context.Context, uid string) (*NetworkSummary, error)
	Legs(ctx context.Context, uid string) ([]repository.LegSummary, error)
	DirectReferrals(ctx context.Context, uid string) ([]model.ClosureEdge, error)
}

type networkService struct {
	closure repository.ClosureEdgeRepository
}

func NewNetworkService(closure repository.ClosureEdgeRepository) NetworkService {
	return &networkService{closure: closure}
}

func (s *networkService) Summary(ctx context.Context, uid string) (*NetworkSummary, error) {
	counts, err := s.closure.CountByDepth(ctx, uid)
	if err != nil {
		return nil, err
	}
	summary := &NetworkSummary{ByDepth: counts}
	for _, c := range counts {
		summary.TotalDownline += c.Count
	}
	return summary, nil
}

func (s *networkService) Legs(ctx context.Context, uid string) ([]repository.LegSummary, error) {
	return s.closure.Legs(ctx, uid)
}

func (s *networkService) DirectReferrals(ctx context.Context, uid string) ([]model.ClosureEdge, error) {
	edges, err := s.closure.ListDescendants(ctx, uid)
	if err != nil {
		return nil, err
	}
	direct := make([]model.ClosureEdge, 0, len(edges))
	for _, e := range edges {
		if e.Distance == 1 {
			direct = append(direct, e)
		}
	}
	return direct, nil
}
