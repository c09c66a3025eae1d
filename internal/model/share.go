package model

import "time"

// ShareLink publishes one user's whole collection under a random hash.
//
// A user has at most one link. The hash is a capability: whoever holds it can
// read the owner's content without signing in, until the owner disables
// sharing.
type ShareLink struct {
	OwnerID   string    `json:"userId"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharedBrain is the public view behind a share link.
type SharedBrain struct {
	Username string    `json:"username"`
	Content  []Content `json:"content"`
}
