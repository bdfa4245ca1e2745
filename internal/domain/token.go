package domain

import "time"

// AccessClaims is the claim set carried by an access token. It mirrors the
// public subset of the user at issuance time; authoritative reads go back to
// the store.
type AccessClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// RefreshClaims is the claim set carried by a refresh token.
type RefreshClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	TokenType string `json:"tokenType"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// OAuthState is the signed state parameter round-tripped through the Google
// consent screen. It replaces server-side session flags: LinkAccount marks a
// popup "link my account" flow, and UserID carries the initiating user when
// linking.
type OAuthState struct {
	Nonce       string `json:"nonce"`
	LinkAccount bool   `json:"link"`
	UserID      string `json:"uid,omitempty"`
	Exp         int64  `json:"exp"`
}

// IsExpired checks if the token is expired
func (c AccessClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}
