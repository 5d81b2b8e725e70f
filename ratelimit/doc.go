// Package ratelimit provides sliding-window admission control for calls to
// external providers. A single Limiter is shared process-wide by every
// pipeline talking to the same provider and is safe for concurrent use.
package ratelimit
