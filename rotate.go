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

// direction is the way a node moves during a single rotation.
type direction int8

const (
	rotateRight direction = iota // x is a left child and moves up to the right
	rotateLeft                   // x is a right child and moves up to the left
)

func (d direction) opposite() direction {
	if d == rotateRight {
		return rotateLeft
	}
	return rotateRight
}

// position describes where a node sits relative to its parent and grandparent.
// The first word is the parent's side under the grandparent, the second the
// node's side under its parent.
type position int8

const (
	atRoot     position = iota // no parent
	leftChild                  // left child of the root
	rightChild                 // right child of the root
	leftLeft
	rightRight
	leftRight
	rightLeft
)

func (p position) String() string {
	switch p {
	case atRoot:
		return "root"
	case leftChild:
		return "left"
	case rightChild:
		return "right"
	case leftLeft:
		return "left-left"
	case rightRight:
		return "right-right"
	case leftRight:
		return "left-right"
	case rightLeft:
		return "right-left"
	}
	return "unknown"
}

// side reports whether child hangs off parent's left or right slot.
func (a *Arena[K, V]) side(parent, child nodeID) (direction, error) {
	p := a.at(parent)
	switch {
	case p.left == p.right && p.left != nilNode:
		return 0, invariantViolation("node %d has the same node %d as both children", parent, p.left)
	case p.left == child:
		return rotateRight, nil
	case p.right == child:
		return rotateLeft, nil
	}
	return 0, invariantViolation("node %d names %d as parent but is not its child", child, parent)
}

// classify computes x's position without changing any link.
func (a *Arena[K, V]) classify(x nodeID) (position, error) {
	if x == nilNode {
		return atRoot, invariantViolation("classify of empty link")
	}
	parent := a.at(x).parent
	if parent == nilNode {
		return atRoot, nil
	}
	xSide, err := a.side(parent, x)
	if err != nil {
		return atRoot, err
	}
	grandparent := a.at(parent).parent
	if grandparent == nilNode {
		if xSide == rotateRight {
			return leftChild, nil
		}
		return rightChild, nil
	}
	pSide, err := a.side(grandparent, parent)
	if err != nil {
		return atRoot, err
	}
	switch {
	case pSide == rotateRight && xSide == rotateRight:
		return leftLeft, nil
	case pSide == rotateLeft && xSide == rotateLeft:
		return rightRight, nil
	case pSide == rotateRight:
		return leftRight, nil
	default:
		return rightLeft, nil
	}
}

// zig rotates x up past its parent. With rotateRight x must be the parent's
// left child: the parent takes x's right subtree as its left and becomes x's
// right child. rotateLeft is the mirror image. The grandparent's slot that
// held the parent now holds x.
func (a *Arena[K, V]) zig(x nodeID, dir direction) {
	xn := a.at(x)
	parent := xn.parent
	pn := a.at(parent)
	grandparent := pn.parent

	if dir == rotateRight {
		inner := xn.right
		pn.left = inner
		a.setParent(inner, parent)
		xn.right = parent
	} else {
		inner := xn.left
		pn.right = inner
		a.setParent(inner, parent)
		xn.left = parent
	}
	pn.parent = x
	xn.parent = grandparent

	if grandparent != nilNode {
		gn := a.at(grandparent)
		if gn.left == parent {
			gn.left = x
		} else {
			gn.right = x
		}
	}
}

// zigZig handles x, its parent and grandparent leaning the same way: the
// parent goes up past the grandparent first, then x past the parent.
func (a *Arena[K, V]) zigZig(x nodeID, dir direction) {
	a.zig(a.at(x).parent, dir)
	a.zig(x, dir)
}

// zigZag handles x as an inner grandchild. x rotates past its parent in the
// direction that straightens the path, then past the former grandparent in
// dir.
func (a *Arena[K, V]) zigZag(x nodeID, dir direction) {
	a.zig(x, dir.opposite())
	a.zig(x, dir)
}

// splay rotates x to the top of its tree and returns it as the new root.
//
// Each step is classified before any link changes. If classification fails
// the returned root is the current top of x's tree, so the caller can keep a
// reachable root while reporting the error.
func (a *Arena[K, V]) splay(x nodeID) (nodeID, error) {
	for {
		pos, err := a.classify(x)
		if err != nil {
			return a.top(x), err
		}
		switch pos {
		case atRoot:
			return x, nil
		case leftChild:
			a.zig(x, rotateRight)
		case rightChild:
			a.zig(x, rotateLeft)
		case leftLeft:
			a.zigZig(x, rotateRight)
		case rightRight:
			a.zigZig(x, rotateLeft)
		case leftRight:
			// x is a right child: left past the parent, then right past the
			// grandparent.
			a.zigZag(x, rotateRight)
		case rightLeft:
			a.zigZag(x, rotateLeft)
		}
	}
}

// top follows parent links from x. It gives up after live steps, which can
// only happen when the parent links form a cycle.
func (a *Arena[K, V]) top(x nodeID) nodeID {
	for steps := 0; x != nilNode && steps <= a.live; steps++ {
		parent := a.at(x).parent
		if parent == nilNode {
			return x
		}
		x = parent
	}
	return x
}
