// Package auth provides password hashing, JWT issuance and verification,
// and the HTTP middleware that guards authenticated routes.
package auth
