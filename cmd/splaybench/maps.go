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

package main

import (
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"

	"github.com/google/splay"
)

// orderedMap is the surface every implementation under test provides.
type orderedMap interface {
	Put(k, v int)
	Get(k int) (int, bool)
	Delete(k int) bool
	Max() (int, bool)
}

const (
	implSplay = "splay"
	implLLRB  = "llrb"
	implBTree = "btree"
)

var knownImpls = []string{implSplay, implLLRB, implBTree}

func newOrderedMap(impl string, degree int) (orderedMap, bool) {
	switch impl {
	case implSplay:
		return &splayMap{t: splay.New[int, int]()}, true
	case implLLRB:
		return &llrbMap{t: llrb.New()}, true
	case implBTree:
		return &btreeMap{t: btree.NewG[kv](degree, func(a, b kv) bool { return a.k < b.k })}, true
	}
	return nil, false
}

type splayMap struct {
	t *splay.Tree[int, int]
}

func (m *splayMap) Put(k, v int)          { m.t.Add(k, v) }
func (m *splayMap) Get(k int) (int, bool) { return m.t.Get(k) }

func (m *splayMap) Delete(k int) bool {
	_, err := m.t.Remove(k)
	return err == nil
}

func (m *splayMap) Max() (int, bool) {
	k, err := m.t.MaxKey()
	if err != nil {
		return 0, false
	}
	v, _ := m.t.Get(k)
	return v, true
}

type kv struct {
	k, v int
}

func (a kv) Less(than llrb.Item) bool {
	return a.k < than.(kv).k
}

type llrbMap struct {
	t *llrb.LLRB
}

func (m *llrbMap) Put(k, v int) { m.t.ReplaceOrInsert(kv{k, v}) }

func (m *llrbMap) Get(k int) (int, bool) {
	if item := m.t.Get(kv{k: k}); item != nil {
		return item.(kv).v, true
	}
	return 0, false
}

func (m *llrbMap) Delete(k int) bool { return m.t.Delete(kv{k: k}) != nil }

func (m *llrbMap) Max() (int, bool) {
	if item := m.t.Max(); item != nil {
		return item.(kv).v, true
	}
	return 0, false
}

type btreeMap struct {
	t *btree.BTreeG[kv]
}

func (m *btreeMap) Put(k, v int) { m.t.ReplaceOrInsert(kv{k, v}) }

func (m *btreeMap) Get(k int) (int, bool) {
	item, ok := m.t.Get(kv{k: k})
	return item.v, ok
}

func (m *btreeMap) Delete(k int) bool {
	_, ok := m.t.Delete(kv{k: k})
	return ok
}

func (m *btreeMap) Max() (int, bool) {
	item, ok := m.t.Max()
	return item.v, ok
}
