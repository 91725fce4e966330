package services

import (
	"context"

	"github.com/allmart/storefront/app/models"
)

// profileGateway is the slice of the data gateway ProfileService needs.
type profileGateway interface {
	GetUser(ctx context.Context, email string) (models.UserProfile, error)
	PatchUser(ctx context.Context, email string, patch models.ProfilePatch) (models.UserProfile, error)
}

// ProfileView is a profile plus its derived completion percentage. The
// percentage is computed on every read, never stored.
type ProfileView struct {
	models.UserProfile
	Completion int `json:"completion"`
}

// ProfileService serves the account page.
type ProfileService struct {
	gateway profileGateway
}

// NewProfileService wires the service to the gateway.
func NewProfileService(gw profileGateway) *ProfileService {
	return &ProfileService{gateway: gw}
}

// Get fetches the caller's profile with its completion percentage.
func (s *ProfileService) Get(ctx context.Context, email string) (ProfileView, error) {
	user, err := s.gateway.GetUser(ctx, email)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{UserProfile: user, Completion: user.Completion()}, nil
}

// Update patches the gateway record and returns the gateway's own view
// of the result as the new local state — no follow-up reload.
func (s *ProfileService) Update(ctx context.Context, email string, patch models.ProfilePatch) (ProfileView, error) {
	user, err := s.gateway.PatchUser(ctx, email, patch)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{UserProfile: user, Completion: user.Completion()}, nil
}
