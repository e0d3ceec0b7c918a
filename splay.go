// Copyright 2014-2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package splay implements an in-memory, self-adjusting ordered map.
//
// A splay tree is a binary search tree that moves every node it touches to
// the root through a sequence of rotations (zig, zig-zig and zig-zag steps).
// Recently used keys therefore stay near the top, and any sequence of m
// operations on a tree of n keys costs O(m log n) in total, even though a
// single operation may take longer.
//
// Besides lookup, insertion and removal, trees support Split at a key and
// Merge of two trees whose key ranges are ordered. Both move whole subtrees
// between Tree values without copying nodes.
//
// Nodes are stored in an Arena and linked by index. Trees that share an Arena
// (see NewWithArena and Split) exchange subtrees in O(1) beyond the splay
// itself; a Merge between trees on different arenas re-homes the donor's
// nodes.
//
// A Tree is not safe for concurrent use. Even lookups restructure the tree.
package splay

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// LessFunc determines how to order keys of type K. It must implement a strict
// ordering; two keys a and b with !less(a, b) && !less(b, a) are treated as
// the same key.
type LessFunc[K any] func(a, b K) bool

// Less returns a LessFunc that uses the '<' operator.
func Less[K constraints.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// Tree is a splay tree mapping keys of type K to values of type V.
//
// The zero Tree is not usable; create one with New, NewFunc or NewWithArena.
type Tree[K any, V any] struct {
	root  nodeID
	arena *Arena[K, V]
	less  LessFunc[K]
}

// New creates an empty tree for ordered keys.
func New[K constraints.Ordered, V any]() *Tree[K, V] {
	return NewFunc[K, V](Less[K]())
}

// NewFunc creates an empty tree ordered by less.
func NewFunc[K any, V any](less LessFunc[K]) *Tree[K, V] {
	return NewWithArena(less, NewArena[K, V]())
}

// NewWithArena creates an empty tree that allocates its nodes from a.
func NewWithArena[K any, V any](less LessFunc[K], a *Arena[K, V]) *Tree[K, V] {
	if less == nil {
		panic("splay: nil less func")
	}
	if a == nil {
		panic("splay: nil arena")
	}
	return &Tree[K, V]{arena: a, less: less}
}

// newTreeFromRoot wraps an already detached subtree of t's arena.
func (t *Tree[K, V]) newTreeFromRoot(root nodeID) *Tree[K, V] {
	return &Tree[K, V]{root: root, arena: t.arena, less: t.less}
}

// Empty reports whether the tree holds no keys.
func (t *Tree[K, V]) Empty() bool {
	return t.root == nilNode
}

func (t *Tree[K, V]) equal(a, b K) bool {
	return !t.less(a, b) && !t.less(b, a)
}

// find descends from the root towards key. It returns the node holding key
// or, if there is none, the last node on the search path: the would-be
// parent of key. The tree must not be empty.
func (t *Tree[K, V]) find(key K) nodeID {
	current := t.root
	for {
		n := t.arena.at(current)
		var next nodeID
		switch {
		case t.less(key, n.key):
			next = n.left
		case t.less(n.key, key):
			next = n.right
		default:
			return current
		}
		if next == nilNode {
			return current
		}
		current = next
	}
}

// splayNode makes x the root.
func (t *Tree[K, V]) splayNode(x nodeID) error {
	root, err := t.arena.splay(x)
	t.root = root
	return err
}

// splay moves the node nearest to key to the root. No-op on an empty tree.
func (t *Tree[K, V]) splay(key K) error {
	if t.root == nilNode {
		return nil
	}
	return t.splayNode(t.find(key))
}

// rightmost returns the node with the largest key under root.
func (t *Tree[K, V]) rightmost(root nodeID) nodeID {
	for {
		right := t.arena.at(root).right
		if right == nilNode {
			return root
		}
		root = right
	}
}

// leftmost returns the node with the smallest key under root.
func (t *Tree[K, V]) leftmost(root nodeID) nodeID {
	for {
		left := t.arena.at(root).left
		if left == nilNode {
			return root
		}
		root = left
	}
}

// MaxKey returns the largest key in the tree, or ErrEmptyTree. It does not
// restructure the tree.
func (t *Tree[K, V]) MaxKey() (K, error) {
	if t.root == nilNode {
		var zero K
		return zero, errors.WithStack(ErrEmptyTree)
	}
	return t.arena.at(t.rightmost(t.root)).key, nil
}

// Get looks for key in the tree, returning its value and true, or
// (zeroValue, false) if it is absent. The node nearest to key becomes the
// root.
func (t *Tree[K, V]) Get(key K) (_ V, _ bool) {
	if t.root == nilNode {
		return
	}
	must(t.splay(key))
	if n := t.arena.at(t.root); t.equal(n.key, key) {
		return n.value, true
	}
	return
}

// Has returns true if key is in the tree.
func (t *Tree[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// split detaches everything at or above key from t and returns it as a
// separate root. t keeps the keys below key.
func (t *Tree[K, V]) split(key K) (nodeID, error) {
	if err := t.splay(key); err != nil || t.root == nilNode {
		return nilNode, err
	}
	root := t.arena.at(t.root)
	if !t.less(root.key, key) {
		right := t.root
		t.root = root.left
		root.left = nilNode
		t.arena.setParent(t.root, nilNode)
		return right, nil
	}
	right := root.right
	root.right = nilNode
	t.arena.setParent(right, nilNode)
	return right, nil
}

// Split removes every key greater than or equal to key from t and returns
// them in a new tree sharing t's arena and ordering. t keeps the keys below
// key. Splitting an empty tree returns an empty tree.
func (t *Tree[K, V]) Split(key K) *Tree[K, V] {
	right, err := t.split(key)
	must(err)
	return t.newTreeFromRoot(right)
}

// join attaches the detached subtree right as the right child of t's maximum.
// Every key under right must be greater than every key in t.
func (t *Tree[K, V]) join(right nodeID) error {
	if right == nilNode {
		return nil
	}
	if t.root == nilNode {
		t.root = right
		return nil
	}
	if err := t.splayNode(t.rightmost(t.root)); err != nil {
		return err
	}
	t.arena.at(t.root).right = right
	t.arena.at(right).parent = t.root
	return nil
}

// Merge moves every key of other into t, leaving other empty. All keys in
// other must be strictly greater than all keys in t; otherwise Merge returns
// ErrKeyRangeOverlap and neither tree loses a key.
//
// When both trees share an Arena the donor's nodes are relinked and pointers
// from Access stay valid. Otherwise the donor's keys are copied into t's arena
// and its nodes released, which invalidates every pointer into other.
func (t *Tree[K, V]) Merge(other *Tree[K, V]) error {
	if other == t {
		if t.root == nilNode {
			return nil
		}
		return errors.Wrap(ErrKeyRangeOverlap, "merge of a tree into itself")
	}
	if other.root == nilNode {
		return nil
	}
	if t.root != nilNode {
		if err := t.splayNode(t.rightmost(t.root)); err != nil {
			return err
		}
		maxKey := t.arena.at(t.root).key
		minKey := other.arena.at(other.leftmost(other.root)).key
		if !t.less(maxKey, minKey) {
			return errors.Wrapf(ErrKeyRangeOverlap, "merge of [%v...] after [...%v]", minKey, maxKey)
		}
	}
	donor := other.root
	if other.arena != t.arena {
		var err error
		if donor, err = t.arena.adopt(other.arena, donor); err != nil {
			return err
		}
	}
	other.root = nilNode
	return t.join(donor)
}

// Add sets key to value. If key is already present its value is replaced in
// place and the previous value is returned with true. Otherwise a new node
// becomes the root and (zeroValue, false) is returned.
func (t *Tree[K, V]) Add(key K, value V) (_ V, _ bool) {
	id, existed := t.insert(key, value)
	if !existed {
		return
	}
	n := t.arena.at(id)
	old := n.value
	n.value = value
	return old, true
}

// insert returns the node for key, creating it with value when absent. The
// node is the root afterwards.
func (t *Tree[K, V]) insert(key K, value V) (nodeID, bool) {
	if t.root == nilNode {
		t.root = t.arena.newNode(key, value)
		return t.root, false
	}
	must(t.splay(key))
	if t.equal(t.arena.at(t.root).key, key) {
		return t.root, true
	}
	right, err := t.split(key)
	must(err)
	id := t.arena.newNode(key, value)
	n := t.arena.at(id)
	n.left, n.right = t.root, right
	t.arena.setParent(n.left, id)
	t.arena.setParent(n.right, id)
	t.root = id
	return id, false
}

// Access returns a pointer to the value stored under key, inserting the zero
// value first if key is absent. The pointer stays valid until key is removed,
// the tree is cleared, or the tree is merged into a tree on a different Arena.
// After such a merge the slot may be reused by any tree on the old arena, so
// the pointer must be taken again from the receiver.
func (t *Tree[K, V]) Access(key K) *V {
	var zero V
	id, _ := t.insert(key, zero)
	return &t.arena.at(id).value
}

// Remove deletes key from the tree and returns its value. It returns
// ErrKeyNotFound, without touching the tree, if key is absent.
func (t *Tree[K, V]) Remove(key K) (V, error) {
	var zero V
	if t.root == nilNode {
		return zero, errors.Wrapf(ErrKeyNotFound, "remove %v from empty tree", key)
	}
	x := t.find(key)
	if !t.equal(t.arena.at(x).key, key) {
		return zero, errors.Wrapf(ErrKeyNotFound, "remove %v", key)
	}
	if err := t.splayNode(x); err != nil {
		return zero, err
	}
	n := t.arena.at(x)
	left, right := n.left, n.right
	n.left, n.right = nilNode, nilNode
	t.arena.setParent(left, nilNode)
	t.arena.setParent(right, nilNode)
	value := n.value
	t.root = left
	if err := t.arena.freeNode(x); err != nil {
		return zero, err
	}
	if err := t.join(right); err != nil {
		return zero, err
	}
	return value, nil
}

// Clear removes every key, releasing all of t's nodes back to its arena.
func (t *Tree[K, V]) Clear() {
	stack := []nodeID{}
	if t.root != nilNode {
		stack = append(stack, t.root)
	}
	t.root = nilNode
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena.at(id)
		if n.left != nilNode {
			stack = append(stack, n.left)
		}
		if n.right != nilNode {
			stack = append(stack, n.right)
		}
		n.parent, n.left, n.right = nilNode, nilNode, nilNode
		must(t.arena.freeNode(id))
	}
}
