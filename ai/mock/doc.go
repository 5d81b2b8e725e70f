// Package mock provides deterministic test doubles for the ai interfaces.
// Default behavior needs no external services: embeddings are derived from
// content hashes and generation replays scripted fragments. Custom behavior,
// including failure injection, is set through function fields.
package mock
