// Package identity folds the two historical auth systems behind one
// internal value. Call sites never branch on which provider produced the
// identity.
package identity

import (
	"fmt"

	"github.com/authorizerdev/authorizer-go"
)

// Identity is the single internal representation of an authenticated user.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Provider resolves a raw credential into an Identity.
type Provider interface {
	// Resolve validates credential for the given roles and returns the
	// identity it represents.
	Resolve(credential string, roles []string) (Identity, error)
}

// AuthorizerProvider adapts the Authorizer session-cookie system.
type AuthorizerProvider struct {
	Client *authorizer.AuthorizerClient
}

// Resolve validates the session cookie against the Authorizer service.
func (p *AuthorizerProvider) Resolve(cookie string, roles []string) (Identity, error) {
	if p.Client == nil {
		return Identity{}, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := p.Client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return Identity{}, fmt.Errorf("session is not valid")
	}

	ident := Identity{Role: primaryRole(roles)}
	if res.User != nil {
		if res.User.ID != "" {
			ident.ID = res.User.ID
		}
		if res.User.Email != "" {
			ident.Email = res.User.Email
		}
	}
	if ident.ID == "" {
		return Identity{}, fmt.Errorf("session user has no id")
	}

	return ident, nil
}

// LegacyTokenProvider adapts bearer tokens issued by the retired auth
// stack. Kept until the last migrated clients stop sending them.
type LegacyTokenProvider struct {
	Secret []byte
}

// Resolve parses and verifies a legacy HMAC bearer token.
func (p *LegacyTokenProvider) Resolve(token string, roles []string) (Identity, error) {
	if len(p.Secret) == 0 {
		return Identity{}, fmt.Errorf("legacy token auth not configured")
	}

	claims, err := ParseToken(p.Secret, token)
	if err != nil {
		return Identity{}, err
	}

	for _, role := range roles {
		if claims.Role == role {
			return Identity{ID: claims.Sub, Email: claims.Email, Role: claims.Role}, nil
		}
	}
	return Identity{}, fmt.Errorf("token role %q not in %v", claims.Role, roles)
}

func primaryRole(roles []string) string {
	if len(roles) > 0 {
		return roles[0]
	}
	return "user"
}
