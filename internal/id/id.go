// Package id generates prefixed unique identifiers for catalog entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New creates a prefixed NanoID, e.g. "res-V1StGXR8_Z5jdHi6B-myT".
// The prefix makes IDs self-describing in logs and audit rows.
func New(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustNew is like New but panics on failure. Only for initialization
// paths and seeds where missing entropy should crash the program.
func MustNew(prefix string) string {
	nid, err := New(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return nid
}
