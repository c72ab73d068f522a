package models

// SessionClaims is the claim set embedded in a gateway session token.
// Subject is the GitHub login name; it is also the credential store key,
// so it must never be replaced with any other identifier.
type SessionClaims struct {
	Subject   string `json:"sub"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// GithubProfile is the subset of the GitHub user object the gateway needs
type GithubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
