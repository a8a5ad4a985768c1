// Package feed maintains the WebSocket subscription to the flow feed.
//
// A Manager owns one logical connection. It decodes topic-tagged JSON
// frames and queues them for the engine; a frame that fails to decode is
// dropped without disturbing the connection. When the connection drops,
// the manager reconnects with exponential backoff starting at one second,
// doubling per attempt and capped at ten seconds, retrying indefinitely.
package feed
