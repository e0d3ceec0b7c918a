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
	"io"
	"strings"

	"github.com/xlab/treeprint"
)

// Print writes the shape of t to w, one node per line with its children
// indented below it and tagged L or R. It is meant for debugging and tests.
func (t *Tree[K, V]) Print(w io.Writer) error {
	if t.root == nilNode {
		_, err := io.WriteString(w, "<empty>\n")
		return err
	}
	tree := treeprint.NewWithRoot(t.label(t.root))
	t.printChildren(tree, t.root)
	_, err := w.Write(tree.Bytes())
	return err
}

func (t *Tree[K, V]) printChildren(branch treeprint.Tree, id nodeID) {
	n := t.arena.at(id)
	if n.left != nilNode {
		t.printChildren(branch.AddMetaBranch("L", t.label(n.left)), n.left)
	}
	if n.right != nilNode {
		t.printChildren(branch.AddMetaBranch("R", t.label(n.right)), n.right)
	}
}

func (t *Tree[K, V]) label(id nodeID) string {
	n := t.arena.at(id)
	return fmt.Sprintf("%v: %v", n.key, n.value)
}

// String returns the output of Print.
func (t *Tree[K, V]) String() string {
	var b strings.Builder
	t.Print(&b)
	return b.String()
}
