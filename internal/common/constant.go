package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Paging limits shared by list operations.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)
