package auth

// IdentityClaim is the normalized result of a successful authentication
// against the external identity provider. It contains facts only, no
// decisions, and is discarded after the session is issued.
type IdentityClaim struct {
	SubjectID     string // provider-scoped stable user identifier (sub)
	Email         string // email asserted by the provider, may be empty
	Name          string // display name, optional
	AvatarURL     string // optional
	Provider      string // upstream tag: "email", "google", "github", ...
	EmailVerified bool   // whether the provider asserts email ownership
}
