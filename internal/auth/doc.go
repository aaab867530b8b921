// Package auth provides authentication and session management for Fiya.
//
// It implements a 2-tier role model (admin → customer) with:
//   - bcrypt password hashing (cost 12)
//   - JWT access/refresh token pairs with rotation on every refresh
//   - Single-session-per-user refresh sessions (login replaces any prior
//     session for the account)
//   - HMAC-SHA256 device-secret generation for monitoring devices that
//     must authenticate without a human password
//
// Access tokens carry a role claim and are verified by signature and
// audience alone (no database hit). Refresh tokens embed the session id;
// rotation replaces the session row, so a rotated-out token fails its
// session lookup and can never be replayed.
package auth
