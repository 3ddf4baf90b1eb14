package handler

import (
	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

func toInvestmentResponse(req *domain.InvestmentRequest) investmentResponse {
	return investmentResponse{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Status:        string(req.Status),
		OwnerID:       req.OwnerID,
		OwnerUsername: req.OwnerUsername,
		ModeratorID:   req.ModeratorID,
		ModeratorName: req.ModeratorName,
		CreatedAt:     req.CreatedAt,
		ModeratedAt:   req.ModeratedAt,
	}
}

func toInvestmentResponses(reqs []*domain.InvestmentRequest) []investmentResponse {
	out := make([]investmentResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toInvestmentResponse(r))
	}
	return out
}
