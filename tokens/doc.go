// Package tokens is a self-contained implementation of the
// sessioncore.TokenService contract: JWT access tokens, opaque non-rotating
// refresh tokens backed by Redis, Argon2id password verification against a
// caller-supplied credential source, and Redis-stored OTP challenges for the
// OTP grant.
//
// Deployments fronted by a dedicated authorization server implement
// sessioncore.TokenService against that server instead; nothing in
// sessioncore depends on this package.
package tokens
