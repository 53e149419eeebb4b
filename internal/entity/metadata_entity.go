package entity

import "time"

// Descriptors of warehouse-side structures this service asked to be created.
// Rows exist from structure creation until structure drop; nothing enforces
// that the structure itself still exists.

type VectorIndexMetadata struct {
	IndexName       string
	TableID         string
	EmbeddingColumn string
	DistanceType    string
	IndexType       string
	Options         map[string]interface{}
	CreatedAt       time.Time
}

type ObjectTableMetadata struct {
	TableID     string
	BucketName  string
	FilePattern string
	FileFormat  string
	Options     map[string]interface{}
	CreatedAt   time.Time
}

type ObjectRefMetadata struct {
	ObjectRef  string
	BucketName string
	FilePath   string
	ObjectType string
	Options    map[string]interface{}
	CreatedAt  time.Time
}
