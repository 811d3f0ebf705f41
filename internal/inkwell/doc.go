// Package inkwell provides an HTTP client for the Inkwell blogging API.
//
// # Overview
//
// Inkwell serves articles to two audiences: anonymous readers, who see only
// published articles, and authenticated writers, who additionally see and
// mutate their own drafts. The client mirrors that split with public-scoped
// and owner-scoped endpoints.
//
// # API Endpoints
//
// Paths are resolved relative to the configured base URL, so a deployment
// mounted under /api/ works without further configuration:
//
//   - GET    articles/public_articles/?page=&page_size=
//   - GET    articles/public_articles/{idOrSlug}/
//   - GET    articles/user_articles/{userId}/?page=&page_size=
//   - GET    articles/user_articles/{userId}/{idOrSlug}/
//   - POST   articles/create/
//   - PATCH  articles/user_articles/{userId}/{id}/
//   - DELETE articles/user_articles/{userId}/{id}/
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: nib/0.1
//   - Carry a fresh X-Request-ID for correlation in server logs
//   - Send Authorization: <scheme> <token> once WithToken has been applied
//   - Have a 10-second timeout on the underlying http.Client
//
// # Error Taxonomy
//
// Every failure returned by the client is an *APIError with a Kind:
//
//   - KindNotFound: 404, or an empty identifier
//   - KindForbidden: 403
//   - KindUnauthenticated: 401, or an owner-scoped call without a user
//   - KindValidation: 400/422; Fields holds per-field messages
//   - KindUnknown: transport failures, decode failures, other statuses
//
// Callers branch with errors.Is against ErrNotFound, ErrForbidden,
// ErrValidation, ErrUnauthenticated and ErrUnknown, and read field messages
// with FieldErrors.
//
// # Payloads
//
// ArticleInput always serializes publish_date, sending null when no schedule
// is set. A PATCH therefore clears a previous schedule instead of leaving it
// untouched.
package inkwell
