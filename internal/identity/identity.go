package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HeaderName carries the JSON-encoded actor descriptor on internal
// service-to-service calls.
const HeaderName = "X-Lumi-Actor"

// Actor describes the service identity attached to outbound internal calls.
type Actor struct {
	UserID   string   `json:"userId"`
	TenantID string   `json:"tenantId"`
	Roles    []string `json:"roles"`
}

// SystemActor returns the actor descriptor used for system-initiated
// lookups on behalf of a tenant.
func SystemActor(tenantID string) Actor {
	return Actor{
		UserID:   "lumi-service",
		TenantID: tenantID,
		Roles:    []string{"system"},
	}
}

// Attach encodes the actor and sets the identity header on the request.
func Attach(req *http.Request, actor Actor) error {
	encoded, err := json.Marshal(actor)
	if err != nil {
		return fmt.Errorf("failed to encode actor descriptor: %w", err)
	}
	req.Header.Set(HeaderName, string(encoded))
	return nil
}
