package handler

import (
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
