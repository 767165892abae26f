package domain

// Entry is one product line of a cart. Quantity is always >= 1.
type Entry struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart maps product ids to requested quantities, keeping insertion order.
// A Cart is not safe for concurrent use; stores serialise access per session.
type Cart struct {
	entries []Entry
}

// NewCart rebuilds a cart from stored entries, dropping non-positive quantities
// and merging duplicates.
func NewCart(entries ...Entry) *Cart {
	c := &Cart{}
	for _, e := range entries {
		if e.Quantity > 0 {
			c.Set(e.ProductID, c.Quantity(e.ProductID)+e.Quantity)
		}
	}
	return c
}

// CoerceQuantity maps non-positive add quantities to 1.
func CoerceQuantity(qty int) int {
	if qty <= 0 {
		return 1
	}
	return qty
}

func (c *Cart) index(productID int64) int {
	for i, e := range c.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

// Quantity returns the quantity held for productID, 0 when absent.
func (c *Cart) Quantity(productID int64) int {
	if i := c.index(productID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

// Add increments the entry by qty, inserting it when absent.
func (c *Cart) Add(productID int64, qty int) {
	c.Set(productID, c.Quantity(productID)+qty)
}

// Set overwrites the quantity; qty <= 0 removes the entry.
func (c *Cart) Set(productID int64, qty int) {
	i := c.index(productID)
	switch {
	case qty <= 0:
		if i >= 0 {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
		}
	case i >= 0:
		c.entries[i].Quantity = qty
	default:
		c.entries = append(c.entries, Entry{ProductID: productID, Quantity: qty})
	}
}

// Remove drops the entry. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	c.Set(productID, 0)
}

// Entries returns a copy of the entries in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// TotalQuantity sums all quantities.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool { return len(c.entries) == 0 }

func (c *Cart) Clear() { c.entries = nil }

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	return &Cart{entries: c.Entries()}
}
