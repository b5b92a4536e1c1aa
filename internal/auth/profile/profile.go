package profile

import (
	"strings"
	"time"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// Profile is the locally persisted record for an authenticated subject. The
// id equals the identity provider's subject id, assigned once at creation
// and never changed.
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	AvatarURL *string    `json:"avatar_url"`
	Provider  string     `json:"provider"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// FromClaim derives a new profile from a verified identity, applying the
// creation defaults: name falls back to the email local-part, then "User";
// provider falls back to "oauth".
func FromClaim(claim *auth.IdentityClaim) Profile {
	name := claim.Name
	if name == "" {
		name = emailLocalPart(claim.Email)
	}
	if name == "" {
		name = "User"
	}

	provider := claim.Provider
	if provider == "" {
		provider = "oauth"
	}

	var avatar *string
	if claim.AvatarURL != "" {
		a := claim.AvatarURL
		avatar = &a
	}

	return Profile{
		ID:        claim.SubjectID,
		Email:     claim.Email,
		Name:      name,
		AvatarURL: avatar,
		Provider:  provider,
	}
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
