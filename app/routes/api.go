// Package routes assembles the HTTP surface: middleware stack, public
// shop and auth endpoints, the authenticated profile area, and the
// admin dashboard API.
package routes

import (
	"net/http"
	"time"

	"github.com/allmart/storefront/app/controllers"
	"github.com/allmart/storefront/app/graph"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/graphql"
	"github.com/allmart/storefront/pkg/metrics"
	"github.com/allmart/storefront/pkg/middleware"
	"github.com/allmart/storefront/pkg/rbac"
	"github.com/allmart/storefront/pkg/reqid"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/router"
	"github.com/allmart/storefront/pkg/session"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Profile    *controllers.ProfileController
	Products   *controllers.ProductsController
	Categories *controllers.CategoriesController
	Drafts     *controllers.DraftController
	Shop       *controllers.ShopController
	Uploads    *controllers.UploadsController
	Dashboard  *controllers.DashboardController
	Catalog    *services.CatalogService
}

// Register mounts the full route table onto r.
func Register(r *router.Router, c Controllers) error {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		middleware.Authenticate,
	)

	r.Get("/health", "health", func(w http.ResponseWriter, req *http.Request) {
		response.OK(w, "ok", nil)
	})
	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/ws/admin", "ws.admin", c.Dashboard.Socket)

	schema, err := graphql.NewSchema(graph.Query(c.Catalog))
	if err != nil {
		return err
	}
	r.Post("/graphql", "graphql", graphql.Handler(schema))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", "auth.signup", c.Auth.SignUp)
	auth.Post("/signin", "auth.signin", c.Auth.SignIn)
	auth.Post("/google", "auth.google", c.Auth.SignInWithGoogle)
	auth.Post("/otp/send", "auth.otp.send", c.Auth.SendOTP)
	auth.Post("/otp/verify", "auth.otp.verify", c.Auth.VerifyOTP)
	auth.Get("/signout", "auth.signout", c.Auth.SignOut, middleware.RequireAuth)
	auth.Put("/profile", "auth.profile.update", c.Auth.UpdateProfile, middleware.RequireAuth)

	shop := api.Group("/shop")
	shop.Get("/products", "shop.products", c.Shop.Products)
	shop.Get("/categories", "shop.categories", c.Shop.Categories)

	profile := api.Group("/profile", middleware.RequireAuth)
	profile.Get("/", "profile.show", c.Profile.Show)
	profile.Patch("/", "profile.update", c.Profile.Update)
	profile.Get("/role", "profile.role", c.Profile.Role)

	admin := api.Group("/admin", middleware.RequireAuth, rbac.HasRole("admin"))
	admin.Get("/products", "admin.products.index", c.Products.Index)
	admin.Delete("/products/{id}", "admin.products.delete", c.Products.Delete)
	admin.Get("/categories", "admin.categories.index", c.Categories.Index)
	admin.Post("/categories", "admin.categories.create", c.Categories.Create)
	admin.Delete("/categories/{id}", "admin.categories.delete", c.Categories.Delete)
	admin.Post("/uploads", "admin.uploads.create", c.Uploads.Create)

	draft := admin.Group("/products/draft")
	draft.Post("/", "admin.draft.create", c.Drafts.Create)
	draft.Get("/{id}", "admin.draft.show", c.Drafts.Show)
	draft.Put("/{id}/details", "admin.draft.details", c.Drafts.Details)
	draft.Post("/{id}/images", "admin.draft.images", c.Drafts.Images)
	draft.Post("/{id}/advance", "admin.draft.advance", c.Drafts.Advance)
	draft.Put("/{id}/attributes", "admin.draft.attributes", c.Drafts.Attributes)
	draft.Post("/{id}/submit", "admin.draft.submit", c.Drafts.Submit)

	return nil
}
