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

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// shape renders the subtree under id as "(key left right)", with leaves as
// bare keys and missing children as "-".
func shape(a *Arena[int, int], id nodeID) string {
	if id == nilNode {
		return "-"
	}
	n := a.at(id)
	if n.left == nilNode && n.right == nilNode {
		return fmt.Sprint(n.key)
	}
	return fmt.Sprintf("(%d %s %s)", n.key, shape(a, n.left), shape(a, n.right))
}

// fixture allocates one node per key and returns their ids by key.
func fixture(keys ...int) (*Arena[int, int], map[int]nodeID) {
	a := NewArena[int, int]()
	ids := make(map[int]nodeID, len(keys))
	for _, k := range keys {
		ids[k] = a.newNode(k, k)
	}
	return a, ids
}

func link(a *Arena[int, int], ids map[int]nodeID, parent, left, right int) {
	p := ids[parent]
	n := a.at(p)
	n.left, n.right = ids[left], ids[right]
	a.setParent(n.left, p)
	a.setParent(n.right, p)
}

func TestClassify(t *testing.T) {
	//         30
	//      20    40
	//    10  25    50
	//         27 45
	a, ids := fixture(10, 20, 25, 27, 30, 40, 45, 50)
	link(a, ids, 30, 20, 40)
	link(a, ids, 20, 10, 25)
	link(a, ids, 25, 0, 27)
	link(a, ids, 40, 0, 50)
	link(a, ids, 50, 45, 0)
	for _, tc := range []struct {
		key  int
		want position
	}{
		{30, atRoot},
		{20, leftChild},
		{40, rightChild},
		{10, leftLeft},
		{25, leftRight},
		{27, rightRight},
		{50, rightRight},
		{45, rightLeft},
	} {
		got, err := a.classify(ids[tc.key])
		if err != nil {
			t.Fatalf("classify %d: %v", tc.key, err)
		}
		if got != tc.want {
			t.Errorf("classify %d: got %v want %v", tc.key, got, tc.want)
		}
	}
}

func TestZig(t *testing.T) {
	a, ids := fixture(5, 10, 15, 20, 30)
	link(a, ids, 20, 10, 30)
	link(a, ids, 10, 5, 15)
	root, err := a.splay(ids[10])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(10 5 (20 15 30))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	root, err = a.splay(ids[20])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(20 (10 5 15) 30)"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestZigZig(t *testing.T) {
	a, ids := fixture(5, 10, 15, 20, 25, 30, 40)
	link(a, ids, 30, 20, 40)
	link(a, ids, 20, 10, 25)
	link(a, ids, 10, 5, 15)
	root, err := a.splay(ids[10])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(10 5 (20 15 (30 25 40)))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	a, ids = fixture(5, 10, 15, 20, 25, 30, 40)
	link(a, ids, 10, 5, 20)
	link(a, ids, 20, 15, 30)
	link(a, ids, 30, 25, 40)
	root, err = a.splay(ids[30])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(30 (20 (10 5 15) 25) 40)"; got != want {
		t.Fatalf("mirror: got %s want %s", got, want)
	}
}

func TestZigZag(t *testing.T) {
	a, ids := fixture(5, 10, 15, 20, 25, 30, 40)
	link(a, ids, 30, 10, 40)
	link(a, ids, 10, 5, 20)
	link(a, ids, 20, 15, 25)
	root, err := a.splay(ids[20])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(20 (10 5 15) (30 25 40))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	a, ids = fixture(5, 10, 15, 20, 25, 30, 40)
	link(a, ids, 10, 5, 30)
	link(a, ids, 30, 20, 40)
	link(a, ids, 20, 15, 25)
	root, err = a.splay(ids[20])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := shape(a, root), "(20 (10 5 15) (30 25 40))"; got != want {
		t.Fatalf("mirror: got %s want %s", got, want)
	}
}

func TestSplayDeepNodeUpdatesGrandparentLinks(t *testing.T) {
	// A left spine 70..10: every step is a zig-zig under a live great-grandparent.
	a, ids := fixture(10, 20, 30, 40, 50, 60, 70)
	for k := 70; k > 10; k -= 10 {
		link(a, ids, k, k-10, 0)
	}
	tr := &Tree[int, int]{root: ids[70], arena: a, less: Less[int]()}
	if err := tr.splayNode(ids[10]); err != nil {
		t.Fatal(err)
	}
	if tr.root != ids[10] {
		t.Fatalf("root is %d", a.at(tr.root).key)
	}
	verify(t, tr)
	if got, want := shape(a, tr.root), "(10 - (60 (40 (20 - 30) 50) 70))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestClassifyFaultChangesNothing(t *testing.T) {
	a, ids := fixture(10, 20, 30)
	link(a, ids, 20, 10, 30)
	// 30 claims 20 as its parent, but 20 lists 10 in both slots.
	a.at(ids[20]).right = ids[10]
	before := shape(a, ids[20])
	_, err := a.classify(ids[10])
	if !errors.Is(err, ErrInvariantViolation) || !errors.HasAssertionFailure(err) {
		t.Fatalf("want invariant violation, got %v", err)
	}
	root, err := a.splay(ids[30])
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("splay: want invariant violation, got %v", err)
	}
	if root != ids[20] {
		t.Fatalf("splay reported root %d, want 20", a.at(root).key)
	}
	if after := shape(a, ids[20]); after != before {
		t.Fatalf("links changed: %s -> %s", before, after)
	}
}

func TestClassifyOrphanReportsMissingSlot(t *testing.T) {
	a, ids := fixture(10, 20)
	// 10 names 20 as its parent, but 20 has no children at all.
	a.at(ids[10]).parent = ids[20]
	_, err := a.classify(ids[10])
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("want invariant violation, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "is not its child") || strings.Contains(msg, "both children") {
		t.Fatalf("misreported fault: %s", msg)
	}
}

func TestInvariantFaultPanicsWithoutErrorReturn(t *testing.T) {
	tr := New[int, int]()
	for _, k := range []int{2, 1, 3} {
		tr.Add(k, k)
	}
	// Detach a child from its parent's slot while keeping its back-reference.
	leaf := tr.find(1)
	parent := tr.arena.at(leaf).parent
	if tr.arena.at(parent).left == leaf {
		tr.arena.at(parent).left = nilNode
	} else {
		tr.arena.at(parent).right = nilNode
	}
	if err := tr.Verify(); err != nil {
		t.Fatalf("unreachable node should not fail verify: %v", err)
	}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariantViolation) {
			t.Fatalf("want invariant panic, got %v", r)
		}
	}()
	must(tr.splayNode(leaf))
}

func TestVerifyDetectsBrokenLinks(t *testing.T) {
	tr := New[int, int]()
	for _, k := range []int{1, 2, 3, 4} {
		tr.Add(k, k)
	}
	left := tr.arena.at(tr.root).left
	tr.arena.at(left).parent = nilNode
	if err := tr.Verify(); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("orphaned child: got %v", err)
	}
	tr.arena.at(left).parent = tr.root

	n := tr.arena.at(tr.root)
	n.key, tr.arena.at(left).key = tr.arena.at(left).key, n.key
	if err := tr.Verify(); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("unordered keys: got %v", err)
	}
}
