package tree

import (
	"errors"

	"github.com/ordset/ordtree/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	// ErrKeyNotFound reports a lookup, removal or update against a key
	// that no node currently holds.
	ErrKeyNotFound = errors.New("[rbtree] key not found")
	// ErrKeyConflict reports an update whose new key is already held by
	// some node, which would silently fold two entries into one.
	ErrKeyConflict = errors.New("[rbtree] key conflict")
)

// RBNode is the read-only view of a tree node handed to callers. The
// child and parent accessors are safe on absent nodes and return nil,
// so external walks (leftmost descent, in-order traversal) need no
// sentinel checks.
type RBNode[K infra.OrderedKey] interface {
	Key() K
	Color() RBColor
	Left() RBNode[K]
	Right() RBNode[K]
	Parent() RBNode[K]
}

// RBTree is an ordered multiset backed by a red-black tree. Duplicate
// keys accumulate as distinct nodes. Not safe for concurrent mutation;
// callers requiring shared access must serialize it externally.
type RBTree[K infra.OrderedKey] interface {
	Root() RBNode[K]
	Insert(key K)
	Find(key K) RBNode[K]
	Search(x RBNode[K], fn func(RBNode[K]) int64) RBNode[K]
	Remove(key K) (RBNode[K], error)
	RemoveMin() (RBNode[K], error)
	Update(oldKey, newKey K) error
	Foreach(action func(idx int64, color RBColor, key K) bool)
	Release()
}
