package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey constrains the key types that carry a total order under
// the built-in < and == operators.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator reports the three-way ordering of i against j.
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i sorts after j (return 1), turn to right part.
//  3. i sorts before j (return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64
