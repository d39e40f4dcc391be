package domain

// IDCounter backs the sequence allocator: one row per entity-type key,
// seq holds the last issued id for that key. Rows are created lazily on
// first allocation and never deleted.
type IDCounter struct {
	ID  string `gorm:"primaryKey;size:64" json:"id"`
	Seq int64  `json:"seq"`
}

func (IDCounter) TableName() string {
	return "id_counters"
}
