package storefrontserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	cartredis "github.com/Apurer/storefront-api/internal/domains/cart/adapters/redis"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	identityapp "github.com/Apurer/storefront-api/internal/domains/identity/application"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// NewResponder maps the storefront error kinds first, then the per-context
// sentinels. Anything left over is answered as a 500 without detail.
func NewResponder(baseURI string) *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder(baseURI,
		apierrors.MapFault,
		apierrors.MapSentinel(apierrors.ErrValidation,
			identityapp.ErrInvalidInput,
			catalogapp.ErrInvalidInput,
			ordersapp.ErrInvalidInput,
		),
		apierrors.MapSentinel(apierrors.ErrUnauthorized,
			identityapp.ErrAuthentication,
			identityports.ErrSessionNotFound,
		),
		apierrors.MapSentinel(apierrors.ErrNotFound, identityports.ErrNotFound),
		apierrors.MapSentinel(apierrors.ErrConflict,
			catalogapp.ErrProductInUse,
			ordersports.ErrIdempotencyConflict,
			cartredis.ErrContention,
		),
	)
}

func parseIDParam(c *gin.Context, responder *apierrors.ChainedResponder, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
