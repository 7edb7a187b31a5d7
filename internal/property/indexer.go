package property

// Indexer maps every Property to a signed integer. Unset and out-of-range
// keys read as 0.
type Indexer struct {
	values [MaxProperty + 1]int
}

func (ix *Indexer) Get(p Property) int {
	if !p.Valid() {
		return 0
	}
	return ix.values[p]
}

// Set overwrites the value. Out-of-range keys are ignored.
func (ix *Indexer) Set(p Property, v int) {
	if !p.Valid() {
		return
	}
	ix.values[p] = v
}

// Add accumulates delta and returns the new value.
func (ix *Indexer) Add(p Property, delta int) int {
	if !p.Valid() {
		return 0
	}
	ix.values[p] += delta
	return ix.values[p]
}

func (ix *Indexer) Reset() {
	ix.values = [MaxProperty + 1]int{}
}

// Each visits every non-zero entry in property order.
func (ix *Indexer) Each(fn func(Property, int)) {
	for p, v := range ix.values {
		if v != 0 {
			fn(Property(p), v)
		}
	}
}
