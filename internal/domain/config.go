package domain

// KeyPrefix namespaces every key this service writes to Redis.
const KeyPrefix = "geoknow:"

// VectorIndexName is the FT index holding entry embeddings.
const VectorIndexName = KeyPrefix + "entries:idx"

// EntryKeyPrefix prefixes the HASH key of each indexed entry.
const EntryKeyPrefix = KeyPrefix + "entry:"

// GazetteerKey is the GEO set mapping place names to coordinates.
const GazetteerKey = KeyPrefix + "gazetteer"

// VectorConfig holds vector index settings.
type VectorConfig struct {
	Dimensions  int
	HNSWM       int
	EFConstruct int
	// Recreate drops an existing index before creating it. Indexed hashes are kept
	// and re-scanned by the new index.
	Recreate bool
}

// DefaultVectorConfig matches text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Dimensions:  1536,
		HNSWM:       16,
		EFConstruct: 200,
	}
}
