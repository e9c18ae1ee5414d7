// Package backend provides the Courtside API server.
//
// The server entry point lives in cmd/server. The API is organized into
// subpackages:
//
//   - internal/handlers: HTTP handlers and the /api/v1 route table
//   - internal/auth: registration, login and JWT validation
//   - internal/feed: posts, likes, comments and feed pages
//   - internal/messaging: direct messages between players
//   - internal/profile: player profiles and image uploads
//   - internal/discovery: nearby player search
//   - internal/assistant: the coaching assistant
//   - internal/settings: per-user key/value settings
//   - internal/websocket: realtime delivery, presence and typing
//   - internal/notify: fan-out of feed and message events
//   - internal/storage: S3 image storage
//   - internal/email: SES notification email
//   - internal/cache: Redis and in-memory key/value stores
//   - internal/middleware: auth, rate limiting, caching, metrics and tracing
//   - internal/database: connection setup and migrations
//   - internal/seed: development and test data
package backend
