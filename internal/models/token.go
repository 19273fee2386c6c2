package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token scopes
const (
	ScopeSystem = "system"
	ScopeTenant = "tenant"
)

// Token issuers
const (
	IssuerSystemAuth = "system-auth"
	IssuerAuth       = "auth"
)

// TokenClaims is the claim set carried by every session token. System tokens
// carry Scope "system", an explicit null BrandID and issuer "system-auth";
// tenant tokens carry Scope "tenant" and the user's brand.
type TokenClaims struct {
	UserID       string  `json:"userId"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	IsSystemUser bool    `json:"isSystemUser"`
	BrandID      *string `json:"brandId"`
	Scope        string  `json:"scope"`
	jwt.RegisteredClaims
}
