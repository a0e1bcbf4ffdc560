package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/ordset/ordtree/lib/infra"
)

func isBlack[K infra.OrderedKey](node RBNode[K]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey](node RBNode[K]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[K infra.OrderedKey](target, to RBNode[K]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack(aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities, for tests only. The hot path never
// runs them.

// RedViolationValidate walks the whole tree inorder and reports a root
// painted red or any red node holding a red child.
func RedViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}
	if isRed(aux) {
		return errors.New("rbtree red violation: red root")
	}

	stack := make([]RBNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if isRed(aux) && (isRed(aux.Left()) || isRed(aux.Right())) {
			return errors.New("rbtree red violation")
		}
		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load the nodes owning at least one nil child. Each
// of them starts a path whose black depth must agree with all others.
func bfsLeaves[K infra.OrderedKey](tree RBTree[K]) []RBNode[K] {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	leaves := make([]RBNode[K], 0, 32)
	queue := make([]RBNode[K], 0, 32)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each path from a leaf up to the root must pass the same number of
black nodes.
*/
func BlackViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	leaves := bfsLeaves(tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(leaves[i], tree.Root()) != blackDepth {
			return errors.New("rbtree black violation")
		}
	}
	return nil
}

// InorderViolationValidate reports keys leaving the tree's configured
// order during an inorder traversal (equal neighbors are fine, the
// container is a multiset).
func InorderViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	if tree.Root() == nil {
		return nil
	}

	compare := func(k1, k2 K) int64 {
		if k1 == k2 {
			return 0
		} else if k1 < k2 {
			return -1
		}
		return 1
	}
	if rbt, ok := tree.(*rbTree[K]); ok {
		compare = rbt.keyCompare
	}

	var (
		prev     K
		started  bool
		violated bool
	)
	tree.Foreach(func(idx int64, color RBColor, key K) bool {
		if started && compare(prev, key) > 0 {
			violated = true
			return false
		}
		prev, started = key, true
		return true
	})
	if violated {
		return errors.New("rbtree inorder violation")
	}
	return nil
}

// InvariantsValidate folds the three structural checks into one error.
func InvariantsValidate[K infra.OrderedKey](tree RBTree[K]) error {
	return multierr.Combine(
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		InorderViolationValidate(tree),
	)
}
