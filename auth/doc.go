// Package auth implements the authentication and session core for the
// user-service: credential verification, JWT issuance with shaped claims,
// stateless bearer verification, and a revocable session registry backed
// by Redis.
//
// Design notes:
//
//   - Tokens are HS256 JWTs signed with two independent process-wide
//     secrets, one for access tokens and one for refresh tokens. A leaked
//     refresh secret cannot forge access tokens and vice versa.
//   - Token verification is purely cryptographic. The bearer middleware in
//     middleware/jwtware never consults the session registry, so a token
//     revoked at logout remains verifiable until its natural expiry.
//     Callers that need revocation to bite before expiry must check the
//     registry themselves.
//   - Registration issues an access token but creates no session entry;
//     only login writes the `session:<userId>` key. Logout deletes it and
//     is idempotent.
//   - All mutable state lives in external stores (Postgres via Bun, Redis).
//     The core holds only read-only configuration established at startup,
//     safe for unsynchronized concurrent reads.
package auth
