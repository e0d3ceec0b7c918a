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

// ascend calls fn for every node of t in key order until fn returns false.
// It stops early, with an error, if it visits more nodes than the arena holds,
// which happens only when links form a cycle.
func (t *Tree[K, V]) ascend(fn func(id nodeID, n *node[K, V]) bool) error {
	var stack []nodeID
	visited := 0
	current := t.root
	for current != nilNode || len(stack) > 0 {
		for current != nilNode {
			visited++
			if visited > t.arena.live {
				return invariantViolation("tree reaches more than the %d live nodes of its arena", t.arena.live)
			}
			stack = append(stack, current)
			current = t.arena.at(current).left
		}
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena.at(id)
		if !fn(id, n) {
			return nil
		}
		current = n.right
	}
	return nil
}

// Verify checks the structural invariants of t: strictly increasing keys in
// order (so no key appears twice), matching parent and child links, a root
// without a parent, and only live nodes reachable. A non-nil result matches
// ErrInvariantViolation.
func (t *Tree[K, V]) Verify() error {
	if t.root == nilNode {
		return nil
	}
	if parent := t.arena.at(t.root).parent; parent != nilNode {
		return invariantViolation("root %d has parent %d", t.root, parent)
	}
	var (
		err     error
		prev    *node[K, V]
		checkUp = func(id, child nodeID) error {
			if child != nilNode && t.arena.at(child).parent != id {
				return invariantViolation("child %d of node %d points to parent %d", child, id, t.arena.at(child).parent)
			}
			return nil
		}
	)
	walkErr := t.ascend(func(id nodeID, n *node[K, V]) bool {
		switch {
		case !n.live:
			err = invariantViolation("released node %d is still linked", id)
		case id != t.root && n.parent == nilNode:
			err = invariantViolation("non-root node %d has no parent", id)
		case prev != nil && !t.less(prev.key, n.key):
			err = invariantViolation("keys out of order at node %d: %v then %v", id, prev.key, n.key)
		}
		if err == nil {
			err = checkUp(id, n.left)
		}
		if err == nil {
			err = checkUp(id, n.right)
		}
		prev = n
		return err == nil
	})
	if walkErr != nil {
		return walkErr
	}
	return err
}
