package storefrontserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// HeaderSessionToken carries the session token when no bearer token is sent.
const HeaderSessionToken = "X-Session-Token"

const sessionContextKey = "storefront.session"

// SessionMiddleware resolves the request's token into a session. Requests
// without a token proceed as the guest actor.
type SessionMiddleware struct {
	identity  identityports.Service
	responder *apierrors.ChainedResponder
}

func NewSessionMiddleware(identity identityports.Service, responder *apierrors.ChainedResponder) *SessionMiddleware {
	return &SessionMiddleware{identity: identity, responder: responder}
}

func (m *SessionMiddleware) Handle(c *gin.Context) {
	token := requestToken(c)
	session, err := m.identity.Resolve(c.Request.Context(), token)
	if errors.Is(err, identityports.ErrSessionNotFound) && startsSession(c.FullPath()) {
		// a stale token must not block signing in again
		session, err = &identitydomain.Session{Actor: identitydomain.Guest()}, nil
	}
	if err != nil {
		m.responder.RespondError(c, err)
		return
	}
	c.Set(sessionContextKey, session)
	c.Next()
}

func startsSession(path string) bool {
	return strings.HasSuffix(path, "/session/login") || strings.HasSuffix(path, "/session/guest")
}

func requestToken(c *gin.Context) string {
	if auth := strings.TrimSpace(c.GetHeader("Authorization")); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(HeaderSessionToken))
}

// currentSession returns the resolved session; a guest session without a token
// when the middleware did not run.
func currentSession(c *gin.Context) *identitydomain.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(*identitydomain.Session); ok && session != nil {
			return session
		}
	}
	return &identitydomain.Session{Actor: identitydomain.Guest()}
}

func currentActor(c *gin.Context) identitydomain.Actor {
	return currentSession(c).Actor
}
