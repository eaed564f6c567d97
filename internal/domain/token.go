package domain

// Role differentiates the two principal kinds a session can belong to.
type Role string

const (
	RoleDefault  Role = "default"
	RoleCustomer Role = "customer"
)

// TokenPair is the result of a successful login or refresh. Both tokens are
// opaque signed strings to everything outside the token codec.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	PrincipalID  string
}
