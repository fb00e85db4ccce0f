package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Items draw IDs from a database sequence; categories and text fingerprints
// use content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Item is a shared listing: something a neighbor is giving away or lending.
// The embedding fields are populated lazily by the ingestion pipeline or the
// batch embed job; everything else is owned by the item-management flows.
type Item struct {
	Id          ID
	OwnerName   string
	Name        string
	Description string
	Quantity    int
	IsBorrow    bool // lend/return rather than give away
	CategoryId  ID   // 0 = uncategorized

	Available bool

	Latitude           float64
	Longitude          float64
	Address            string
	LocationName       string
	PickupInstructions string
	Picture            string // path to the uploaded image, owned by the web layer

	Vector          []float32 // embedding for semantic search (populated by processors)
	TextFingerprint ID        // IDFromContent of the text the vector was built from

	CreatedAt  time.Time // when the item was listed
	InsertedAt time.Time // when the record was inserted into the database
	UpdatedAt  time.Time // when the record was last updated
}

// Category is a fixed label items can be filed under ("Tools", "Food", ...).
type Category struct {
	Id   ID
	Name string
}

// SearchResult pairs an item with its resolved category name and the cosine
// similarity score against the query, rounded for presentation.
type SearchResult struct {
	Item         *Item
	CategoryName string
	Score        float32
}
