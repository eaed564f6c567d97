package dto

// CustomerCreateRequest payload for new customer accounts.
type CustomerCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// CustomerUpdateRequest payload for profile changes.
type CustomerUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CustomerResponse is the public customer account shape. The opaque token is
// only included on creation.
type CustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Token   string `json:"token,omitempty"`
}
