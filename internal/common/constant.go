package common

// AuthorizationHeaderName carries the bearer access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"

// AnonymousAuthor is assigned to posts created without an authenticated identity.
const AnonymousAuthor = "Anonymous"
