package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coveradmin/insurance-portal/internal/api/middleware"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// PortalHandler is the catch-all sink behind the access guard. The real
// portal pages and business APIs are separate services that trust the
// identity the guard injects; this handler stands in for them, echoing the
// classified tier and the identity so the enforcement path is observable
// end to end.
type PortalHandler struct{}

func NewPortalHandler() *PortalHandler {
	return &PortalHandler{}
}

type portalResponse struct {
	Message string `json:"message"`
	Tier    string `json:"tier"`
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Handle responds for any guarded path that reached a handler.
func (h *PortalHandler) Handle(c echo.Context) error {
	tier, _ := c.Get(middleware.CtxTier).(string)

	resp := portalResponse{Message: "ok", Tier: tier}
	if tier == string(domain.TierAdmin) || tier == string(domain.TierCustomer) {
		userID, email, role, err := ctxIdentity(c)
		if err != nil {
			return err
		}
		resp.UserID, resp.Email, resp.Role = userID, email, role
	}

	return c.JSON(http.StatusOK, resp)
}
