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

package splay

// nodeID addresses a node slot in an Arena. The zero id is never handed out
// and serves as the empty link.
type nodeID uint32

const nilNode nodeID = 0

const (
	pageShift = 8
	pageSize  = 1 << pageShift
	pageMask  = pageSize - 1
)

// node is a single key/value slot in an Arena.
//
// For a live node n with n.left == c or n.right == c, c.parent == n, and every
// non-nil parent link is matched by exactly one of the parent's child slots.
// A node whose parent is nilNode is the root of its tree.
type node[K any, V any] struct {
	key    K
	value  V
	parent nodeID
	left   nodeID
	right  nodeID
	live   bool
}

// Arena holds the nodes of one or more trees. Nodes live in fixed-size pages
// that never move once allocated, so pointers into a node stay valid until the
// node is released. Released slots are kept on a free list and reused.
//
// Trees built on the same Arena can split and merge without copying nodes.
// An Arena is not safe for concurrent use; trees sharing one must be used
// from a single goroutine.
type Arena[K any, V any] struct {
	pages    []*[pageSize]node[K, V]
	next     nodeID
	freelist []nodeID
	live     int
}

// NewArena creates an empty node arena.
func NewArena[K any, V any]() *Arena[K, V] {
	// Slot 0 of the first page backs nilNode and is never allocated.
	return &Arena[K, V]{next: 1}
}

// Len returns the number of live nodes across all trees using this arena.
func (a *Arena[K, V]) Len() int {
	return a.live
}

func (a *Arena[K, V]) at(id nodeID) *node[K, V] {
	return &a.pages[id>>pageShift][id&pageMask]
}

func (a *Arena[K, V]) newNode(key K, value V) nodeID {
	var id nodeID
	if index := len(a.freelist) - 1; index >= 0 {
		id = a.freelist[index]
		a.freelist = a.freelist[:index]
	} else {
		// next wraps to nilNode once every id has been handed out.
		if a.next == nilNode {
			panic(invariantViolation("arena exhausted its %d node ids", ^nodeID(0)))
		}
		if int(a.next>>pageShift) == len(a.pages) {
			a.pages = append(a.pages, new([pageSize]node[K, V]))
		}
		id = a.next
		a.next++
	}
	n := a.at(id)
	n.key, n.value, n.live = key, value, true
	a.live++
	return id
}

// freeNode releases a detached node. A node can be released only once per
// allocation.
func (a *Arena[K, V]) freeNode(id nodeID) error {
	if id == nilNode || (a.next != nilNode && id >= a.next) {
		return invariantViolation("release of unknown node %d", id)
	}
	n := a.at(id)
	if !n.live {
		return invariantViolation("node %d released twice", id)
	}
	if n.parent != nilNode || n.left != nilNode || n.right != nilNode {
		return invariantViolation("node %d released while still linked", id)
	}
	// clear to allow GC
	*n = node[K, V]{}
	a.freelist = append(a.freelist, id)
	a.live--
	return nil
}

// setParent points child's back-reference at parent, ignoring empty links.
func (a *Arena[K, V]) setParent(child, parent nodeID) {
	if child != nilNode {
		a.at(child).parent = parent
	}
}

// adopt moves the subtree rooted at root out of src and into a, preserving its
// shape, and returns the subtree's root in a. Every src node is released.
func (a *Arena[K, V]) adopt(src *Arena[K, V], root nodeID) (nodeID, error) {
	type move struct {
		from   nodeID
		parent nodeID
		left   bool
	}
	var newRoot nodeID
	stack := []move{{from: root}}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sn := src.at(m.from)
		id := a.newNode(sn.key, sn.value)
		n := a.at(id)
		n.parent = m.parent
		switch {
		case m.parent == nilNode:
			newRoot = id
		case m.left:
			a.at(m.parent).left = id
		default:
			a.at(m.parent).right = id
		}
		if sn.right != nilNode {
			stack = append(stack, move{from: sn.right, parent: id})
		}
		if sn.left != nilNode {
			stack = append(stack, move{from: sn.left, parent: id, left: true})
		}
		sn.parent, sn.left, sn.right = nilNode, nilNode, nilNode
		if err := src.freeNode(m.from); err != nil {
			return newRoot, err
		}
	}
	return newRoot, nil
}
