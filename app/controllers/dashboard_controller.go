package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/event"
	"github.com/allmart/storefront/pkg/ws"
)

// DashboardController pushes catalog change events to connected admin
// dashboards over WebSocket so open tables refresh without polling.
type DashboardController struct {
	hub *ws.Hub
}

type dashboardEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// NewDashboardController starts the hub and subscribes it to the
// catalog events. Call once at boot.
func NewDashboardController() *DashboardController {
	c := &DashboardController{hub: ws.NewHub()}
	go c.hub.Run()

	for _, name := range []string{
		services.EventProductCreated,
		services.EventProductDeleted,
		services.EventCategoryCreated,
		services.EventCategoryDeleted,
	} {
		c.listen(name)
	}
	return c
}

func (c *DashboardController) listen(name string) {
	event.Listen(name, func(payload interface{}) {
		msg, err := json.Marshal(dashboardEvent{Event: name, Payload: payload, At: time.Now().UTC()})
		if err != nil {
			return
		}
		c.hub.Broadcast <- msg
	})
}

// Socket handles GET /ws/admin, upgrading the connection into the hub.
func (c *DashboardController) Socket(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}

// Clients reports how many dashboards are connected.
func (c *DashboardController) Clients() int {
	return c.hub.ClientCount()
}
