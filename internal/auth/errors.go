package auth

import "errors"

// Failure kinds shared by the issuance flows. Handlers translate these into
// JSON envelopes or callback redirect codes; raw upstream errors never reach
// a client.
var (
	// Client-supplied data is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// The identity provider rejected the credential. The HTTP layer answers
	// with one generic message whether the email exists or not.
	ErrAuthFailed = errors.New("authentication failed")

	// The requested social provider is not in the allow-list.
	ErrInvalidProvider = errors.New("unknown oauth provider")

	// The provider reported an OAuth error on the redirect itself
	// (e.g. access_denied).
	ErrProviderError = errors.New("provider returned an oauth error")

	// The authorization-code exchange failed.
	ErrExchangeFailed = errors.New("code exchange failed")

	// The exchange succeeded but identity claims could not be retrieved.
	ErrClaimRetrievalFailed = errors.New("claim retrieval failed")

	// A profile row could not be created for a verified identity. Fatal to
	// the flow: no session is issued without a profile.
	ErrProfileCreationFailed = errors.New("profile creation failed")

	// An external call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// Missing, malformed, expired or forged session token. Reported
	// uniformly as 401.
	ErrNotAuthorized = errors.New("not authorized")
)
