package tree

import (
	"github.com/ordset/ordtree/lib/infra"
)

type rbNode[K infra.OrderedKey] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Color() RBColor {
	return node.color
}

func (node *rbNode[K]) Left() RBNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Right() RBNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K]) isNilLeaf() bool {
	return node == nil
}

func (node *rbNode[K]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *rbNode[K]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) sibling() *rbNode[K] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *rbNode[K]) uncle() *rbNode[K] {
	return node.parent.sibling()
}

func (node *rbNode[K]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *rbNode[K]) grandpa() *rbNode[K] {
	return node.parent.parent
}

func (node *rbNode[K]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
// Only called for nodes with a right subtree here, so the backtracking
// branch is kept for completeness.
func (node *rbNode[K]) succ() *rbNode[K] {
	x := node
	if x == nil {
		return nil
	}

	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K infra.OrderedKey] struct {
	root   *rbNode[K]
	isDesc bool
}

func (tree *rbTree[K]) keyCompare(k1, k2 K) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		if !tree.isDesc {
			return -1
		}
		return 1
	} else {
		if !tree.isDesc {
			return 1
		}
		return -1
	}
}

func (tree *rbTree[K]) Root() RBNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *rbNode[K]) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	}
	y.parent = p
}

/*
		 |                         |
		 X                         S
		/ \     rightRotate(S)    / \
	   L   S    <============    X   R
		  / \                   / \
		Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K]) rightRotate(x *rbNode[K]) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	}
	y.parent = p
}

// Insert stores key as a new node. It always succeeds; duplicate keys
// accumulate as functionally distinct nodes. Equal keys descend to the
// right and attach as right children, so duplicates always land after
// their equals in the configured order.
// The first node of an empty tree is created black, every other new
// node is created red and handed to the insert fixup.
func (tree *rbTree[K]) Insert(key K) {
	if tree.root == nil {
		tree.root = &rbNode[K]{key: key}
		return
	}

	z := &rbNode[K]{key: key, color: Red}
	for y := tree.root; ; {
		if /* less */ tree.keyCompare(key, y.key) < 0 {
			if y.left == nil {
				y.left, z.parent = z, y
				break
			}
			y = y.left
		} else /* greater or equal */ {
			if y.right == nil {
				y.right, z.parent = z, y
				break
			}
			y = y.right
		}
	}

	tree.insertRebalance(z)
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X's parent P is black, or X is the root. Nothing to do apart from
forcing a red root back to black.

im2: X's parent P is red and P is the root. Repaint P into black.

im3: Both the parent P and the uncle U are red. (red-violation)
Repainting G red may re-introduce the violation one level up, so the
loop continues from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red, the uncle U is black or absent, and X is the
opposite direction to P (inner child). Rotate P so the case degrades
into im5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: X is the same direction as P (outer child). Rotate G, repaint.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K]) insertRebalance(x *rbNode[K]) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if /* im1 */ x.parent.isBlack() {
			return
		}

		if /* im2 */ x.parent.isRoot() {
			x.parent.color = Black
			return
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		dir := x.Direction()
		if /* im4 */ dir != x.parent.Direction() {
			p := x.parent
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert fixup inner child (im4)")
			}
			x = p // enter im5 to fix
		}

		switch /* im5 */ x.parent.Direction() {
		case Left:
			tree.rightRotate(x.grandpa())
		case Right:
			tree.leftRotate(x.grandpa())
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert fixup outer child (im5)")
		}

		x.parent.color = Black
		x.sibling().color = Red
		return
	}
}

/*
r1: Only a root node, unlink directly.

r2: Node X carries both children. It is not unlinked itself: its key is
overwritten with the in-order successor's key (the minimum of the right
subtree) and the successor is removed structurally instead, which keeps
the unlink logic confined to nodes with at most one child.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   absorb(S)    L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) X is a red leaf, unlink directly.
r3: (2) X is a black leaf, its side of the tree loses one black node
(double-black deficiency), run the remove fixup before unlinking.

r4: X holds exactly one child. The child must be red (see conclusion
above), so splicing it in and repainting black restores p4; a black
child in its place would instead re-enter the fixup.
*/
func (tree *rbTree[K]) removeNode(z *rbNode[K]) *rbNode[K] {
	if /* r1 */ z.isRoot() && z.isLeaf() {
		tree.root = nil
		z.parent, z.left, z.right = nil, nil, nil
		return z
	}

	res := &rbNode[K]{key: z.key, color: z.color}

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		y = z.succ() // enter r3-r4
		z.key = y.key
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (1) */ y.isRed() {
			switch y.Direction() {
			case Left:
				y.parent.left = nil
			case Right:
				y.parent.right = nil
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] red leaf must not be the root (r3-1)")
			}
			y.parent = nil
			tree.root.color = Black
			return res
		}
		/* r3 (2) */
		tree.removeRebalance(y)
	} else /* r4 */ {
		replace := y.right
		if replace == nil {
			replace = y.left
		}

		switch y.Direction() {
		case Root:
			tree.root = replace
			replace.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node.
	if !y.isRoot() {
		if y == y.parent.left {
			y.parent.left = nil
		} else if y == y.parent.right {
			y.parent.right = nil
		}
	}
	y.parent, y.left, y.right = nil, nil, nil
	if tree.root != nil {
		tree.root.color = Black
	}

	return res
}

// Remove unlinks the first node matching key found by descent and
// returns a detached snapshot of it, or ErrKeyNotFound. At most one
// node is removed per call even when duplicates are present.
func (tree *rbTree[K]) Remove(key K) (RBNode[K], error) {
	if tree.root == nil {
		return nil, ErrKeyNotFound
	}
	z := tree.Search(tree.Root(), func(node RBNode[K]) int64 {
		return tree.keyCompare(key, node.Key())
	})
	if z == nil {
		return nil, ErrKeyNotFound
	}
	return tree.removeNode(z.(*rbNode[K])), nil
}

// RemoveMin unlinks the node holding the smallest key in the configured
// order and returns a detached snapshot of it.
func (tree *rbTree[K]) RemoveMin() (RBNode[K], error) {
	if tree.root == nil {
		return nil, ErrKeyNotFound
	}
	return tree.removeNode(tree.root.minimum()), nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X carries the double-black deficiency. S is X's sibling, Sc the nephew
on X's side (near), Sd the nephew on the far side. The cases must be
tried in this order at each level; every later case relies on the
earlier conditions being false.

rm1: X is the root. The deficiency vanishes.

rm2: S is red, so P, Sc and Sd must be black. Rotate P towards X,
repaint, then recompute S and fall through to the black-sibling cases.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm3: P, S, Sc and Sd are all black. Repaint S red, which balances the
two subtrees of P locally but leaves the whole of P deficient; continue
one level up.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: P is red, S, Sc and Sd are black. Swapping P's and S's colors
feeds the missing black into X's path without disturbing S's side.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm5: S is black, the near nephew Sc is red, the far nephew Sd is black.
Rotate Sc over S and repaint to expose a red far nephew; enter rm6.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm6: S is black, the far nephew Sd is red. Rotate P towards X, give S
P's color, repaint P and Sd black. The deficiency is resolved.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K]) removeRebalance(x *rbNode[K]) {
	for {
		if /* rm1 */ x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm2 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove fixup red sibling (rm2)")
			}
			sibling.color = Black
			x.parent.color = Red
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K]
		switch dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove fixup nephew split")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm4 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			}
			/* rm3 */
			sibling.color = Red
			x = x.parent
			continue
		}

		if /* rm5 */ sd.isBlack() {
			switch dir {
			case Left:
				tree.rightRotate(sibling)
			case Right:
				tree.leftRotate(sibling)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove fixup near nephew (rm5)")
			}
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			switch dir {
			case Left:
				sd = sibling.right
			case Right:
				sd = sibling.left
			}
		}

		switch /* rm6 */ dir {
		case Left:
			tree.leftRotate(x.parent)
		case Right:
			tree.rightRotate(x.parent)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove fixup far nephew (rm6)")
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		if !sd.isNilLeaf() {
			sd.color = Black
		}
		break
	}
}

// Search descends from x steered by fn: 0 stops at the current node,
// a positive result turns right, a negative one left.
func (tree *rbTree[K]) Search(x RBNode[K], fn func(RBNode[K]) int64) RBNode[K] {
	for aux := x; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.Right()
		} else {
			aux = aux.Left()
		}
	}
	return nil
}

// Find returns the first node matching key found by descent, or nil.
func (tree *rbTree[K]) Find(key K) RBNode[K] {
	return tree.Search(tree.Root(), func(node RBNode[K]) int64 {
		return tree.keyCompare(key, node.Key())
	})
}

// Update rewrites the key of the first node matching oldKey in place.
// The node keeps its position: the tree is NOT re-threaded, so the
// caller must guarantee that newKey still sorts between the node's
// in-order neighbors. ErrKeyConflict is reported whenever any node
// already holds newKey (including oldKey == newKey) and the tree is
// left untouched; ErrKeyNotFound when no node holds oldKey.
func (tree *rbTree[K]) Update(oldKey, newKey K) error {
	z := tree.Find(oldKey)
	if z == nil {
		return ErrKeyNotFound
	}
	if tree.Find(newKey) != nil {
		return ErrKeyConflict
	}
	z.(*rbNode[K]).key = newKey
	return nil
}

// Foreach runs an inorder traversal with an explicit stack, so the
// Go call stack depth stays constant whatever the tree height is.
// Returning false from action stops the walk.
func (tree *rbTree[K]) Foreach(action func(idx int64, color RBColor, key K) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Release unlinks every node so that no subtree keeps another alive
// through parent back-references.
func (tree *rbTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

type RBTreeOpt[K infra.OrderedKey] func(*rbTree[K])

// WithRBTreeDesc inverts the key order, so traversal yields keys in
// non-increasing order and RemoveMin unlinks the largest key.
func WithRBTreeDesc[K infra.OrderedKey]() RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		tree.isDesc = true
	}
}

func NewRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	tree := &rbTree[K]{}
	for _, o := range opts {
		o(tree)
	}
	return tree
}
