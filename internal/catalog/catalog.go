package catalog

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/yourorg/trading-dashboard/internal/model"

	"golang.org/x/crypto/blake2b"
)

// AllCategories selects every record regardless of category
const AllCategories = "All"

// Catalog is an immutable, fetched set of concept records.
// Its ID is a content fingerprint, so two catalogs with the same records share an identity.
type Catalog struct {
	id      string
	records []model.ConceptRecord
	total   int
}

// New builds a catalog from fetched records. The records are copied.
func New(records []model.ConceptRecord, total int) *Catalog {
	owned := make([]model.ConceptRecord, len(records))
	copy(owned, records)
	return &Catalog{
		id:      fingerprint(owned),
		records: owned,
		total:   total,
	}
}

// ID returns the catalog identity used for memoization
func (c *Catalog) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Records returns the records in source order. The slice must not be modified.
func (c *Catalog) Records() []model.ConceptRecord {
	if c == nil {
		return nil
	}
	return c.records
}

// Len returns the number of records held
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Total returns the backend-reported concept total, or 0 when none was supplied
func (c *Catalog) Total() int {
	if c == nil {
		return 0
	}
	return c.total
}

func fingerprint(records []model.ConceptRecord) string {
	hash, _ := blake2b.New256(nil)
	var size [8]byte
	write := func(s string) {
		binary.BigEndian.PutUint64(size[:], uint64(len(s)))
		hash.Write(size[:])
		hash.Write([]byte(s))
	}
	for _, r := range records {
		write(r.Name)
		write(r.Description)
		write(r.Category)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
