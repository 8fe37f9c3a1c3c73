package model

// AccessToken is the claim object embedded in admin tokens.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type AdminRole = string

const (
	RoleAdmin AdminRole = "admin"
)
