package controllers

import (
	"net/http"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/middleware"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/session"
)

// celebrateFlag is the session key arming the one-shot completion
// celebration. Set when a save reaches 100, cleared on first delivery.
const celebrateFlag = "profile_celebrated"

type ProfileController struct {
	profiles *services.ProfileService
	auth     *services.AuthService
}

func NewProfileController(profiles *services.ProfileService, auth *services.AuthService) *ProfileController {
	return &ProfileController{profiles: profiles, auth: auth}
}

// profileResponse adds the one-shot celebrate flag to a profile view.
type profileResponse struct {
	services.ProfileView
	Celebrate bool `json:"celebrate"`
}

// Show handles GET /api/profile. Anonymous callers never reach here;
// the route is session-gated.
func (c *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.UserFromCtx(r)

	view, err := c.profiles.Get(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Profile", profileResponse{ProfileView: view})
}

// Update handles PATCH /api/profile. The gateway's response body
// becomes the new state; there is no re-fetch.
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.UserFromCtx(r)

	var patch models.ProfilePatch
	if err := bind.JSON(r, &patch); err != nil {
		fail(w, r, err)
		return
	}

	view, err := c.profiles.Update(r.Context(), email, patch)
	if err != nil {
		fail(w, r, err)
		return
	}

	// Reaching exactly 100 celebrates once per session.
	celebrate := false
	sess := session.FromCtx(r)
	if view.Completion == 100 && !sess.GetBool(celebrateFlag) {
		celebrate = true
		sess.Set(celebrateFlag, true)
		if err := sess.Save(w); err != nil {
			fail(w, r, err)
			return
		}
	}

	response.OK(w, "Profile updated", profileResponse{ProfileView: view, Celebrate: celebrate})
}

// Role handles GET /api/profile/role, backing the admin route guard.
func (c *ProfileController) Role(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.UserFromCtx(r)

	role, err := c.auth.LookupRole(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Role", map[string]string{"role": role})
}
