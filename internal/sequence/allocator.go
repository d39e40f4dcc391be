package sequence

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Counter keys, one per entity type. Keys are created lazily on first use.
const (
	CategoryID       = "categoryid"
	SubcategoryID    = "subcategoryid"
	ProductID        = "productid"
	VariantID        = "variantid"
	GalleryID        = "galleryid"
	AttributeID      = "attributeid"
	AttributeValueID = "attributevalueid"
	OrderID          = "orderid"
	AddressID        = "addressid"
	CartID           = "cartid"
	UserID           = "userid"
	RoleID           = "roleid"
	OtpID            = "otpid"
	WishlistID       = "wishlistid"
	WishlistItemID   = "wishlistitemid"
	BlogID           = "blogid"
	BlogCategoryID   = "blogcategoryid"
	BlogTagID        = "blogtagid"
	FaqID            = "faqid"
)

// ErrAllocationFailed means the atomic increment reported no updated row.
// Under correct upsert semantics this cannot happen; it is kept as a
// trip-wire so a broken storage layer never hands out duplicate ids.
// Not retryable within the same call; callers abort the enclosing write.
var ErrAllocationFailed = errors.New("sequence: counter allocation returned no row")

// Allocator issues unique, monotonically increasing integer ids per counter
// key. Each Next call is a single atomic increment-and-upsert against the
// id_counters table, so concurrent callers on the same key always observe
// distinct values. The first allocation for an unseen key yields 1.
type Allocator struct {
	db *gorm.DB
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// Next atomically increments the counter for key and returns the new value.
// The upsert and increment happen in one statement; there is no window in
// which two callers can read the same seq.
func (a *Allocator) Next(ctx context.Context, key string) (int64, error) {
	return a.NextTx(ctx, a.db, key)
}

// NextTx is Next running on the caller's transaction handle. Allocations made
// while a transaction is open must go through the same connection: sqlite
// locks the table against a second writer, so allocating on the outer handle
// from inside a transaction closure would deadlock the write.
func (a *Allocator) NextTx(ctx context.Context, tx *gorm.DB, key string) (int64, error) {
	var seq int64
	res := tx.WithContext(ctx).Raw(`
		INSERT INTO id_counters (id, seq) VALUES (?, 1)
		ON CONFLICT (id) DO UPDATE SET seq = id_counters.seq + 1
		RETURNING seq`, key).Scan(&seq)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 || seq <= 0 {
		return 0, ErrAllocationFailed
	}
	return seq, nil
}

// Current reads the last issued value for key without consuming one.
// Returns 0 for a key that has never allocated.
func (a *Allocator) Current(ctx context.Context, key string) (int64, error) {
	var seq int64
	err := a.db.WithContext(ctx).
		Raw(`SELECT seq FROM id_counters WHERE id = ?`, key).
		Scan(&seq).Error
	return seq, err
}
