package models

// Click records a single visit to a shortened link.
// Clicks live inside their Link record and are append-only: the sequence is
// insertion-ordered, which is also chronological order since timestamps come
// from the wall clock of the one process that ever writes the store.
type Click struct {
	// Timestamp is the moment of the visit in milliseconds since epoch.
	Timestamp int64 `json:"ts"`

	// Referrer is the caller-supplied origin of the visit, or "direct"
	// when none was provided.
	Referrer string `json:"ref"`
}

// DirectReferrer is recorded when a visit carries no referrer information.
const DirectReferrer = "direct"
