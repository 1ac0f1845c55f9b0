package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/sopworks/sopdb/internal/config"
	"github.com/sopworks/sopdb/internal/identity"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
)

var (
	authProvider   identity.Provider
	legacyProvider identity.Provider
	authOnce       sync.Once
)

// IsAuthInitialized returns true if the identity providers are wired up.
func IsAuthInitialized() bool {
	return authProvider != nil
}

// InitAuth initializes the identity providers (singleton pattern). The
// Authorizer client needs the request origin for its redirect URL, so
// initialization happens lazily on the first authenticated request.
func InitAuth(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			cfg.AuthzURL, cfg.AuthzClientID, redirectURL)

		client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}

		authProvider = &identity.AuthorizerProvider{Client: client}
		if cfg.LegacyTokenSecret != "" {
			legacyProvider = &identity.LegacyTokenProvider{Secret: []byte(cfg.LegacyTokenSecret)}
		}
	})

	return initErr
}

// ResolveIdentity validates a session cookie or a legacy bearer token for
// the given roles. The cookie wins when both are present; callers never
// learn which provider answered.
func ResolveIdentity(cookie, bearer string, roles []string) (identity.Identity, error) {
	if cookie == "" && bearer == "" {
		return identity.Identity{}, types.ErrAuthenticationRequired
	}

	if cookie != "" && authProvider != nil {
		ident, err := authProvider.Resolve(cookie, roles)
		if err == nil {
			return ident, nil
		}
		if bearer == "" {
			return identity.Identity{}, err
		}
	}

	if bearer != "" && legacyProvider != nil {
		return legacyProvider.Resolve(bearer, roles)
	}

	return identity.Identity{}, fmt.Errorf("no identity provider accepted the credential")
}

// SetProvidersForTest swaps the identity providers. Test use only.
func SetProvidersForTest(session, legacy identity.Provider) {
	authProvider = session
	legacyProvider = legacy
}
