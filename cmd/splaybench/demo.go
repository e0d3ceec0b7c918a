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
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/google/splay"
)

func newDemoCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [key...]",
		Short: "Insert, look up, remove, split and merge keys, printing the tree after each step",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"5", "2", "8", "1", "3"}
			}
			keys := make([]int, 0, len(args))
			for _, arg := range args {
				k, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Wrapf(err, "key %q", arg)
				}
				keys = append(keys, k)
			}
			return demo(cmd.OutOrStdout(), log, keys)
		},
	}
}

func demo(w io.Writer, log *logrus.Logger, keys []int) error {
	tr := splay.New[int, string]()
	show := func(title string, t *splay.Tree[int, string]) error {
		if _, err := fmt.Fprintf(w, "== %s\n", title); err != nil {
			return err
		}
		if err := t.Print(w); err != nil {
			return err
		}
		if err := t.Verify(); err != nil {
			log.WithError(err).Error("invariants violated")
			return err
		}
		return nil
	}

	for _, k := range keys {
		tr.Add(k, "v"+strconv.Itoa(k))
		if err := show(fmt.Sprintf("add %d", k), tr); err != nil {
			return err
		}
	}
	for _, k := range keys {
		v, ok := tr.Get(k)
		log.WithFields(logrus.Fields{"key": k, "value": v, "found": ok}).Debug("get")
	}
	maxKey, err := tr.MaxKey()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "max key: %d\n", maxKey); err != nil {
		return err
	}

	victim := keys[len(keys)/2]
	if _, err := tr.Remove(victim); err != nil {
		return err
	}
	if err := show(fmt.Sprintf("remove %d", victim), tr); err != nil {
		return err
	}
	if _, err := tr.Remove(victim); errors.Is(err, splay.ErrKeyNotFound) {
		if _, err := fmt.Fprintf(w, "remove %d again: %v\n", victim, err); err != nil {
			return err
		}
	}

	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)
	pivot := sorted[len(sorted)/2]
	right := tr.Split(pivot)
	if err := show(fmt.Sprintf("split at %d: below", pivot), tr); err != nil {
		return err
	}
	if err := show(fmt.Sprintf("split at %d: at or above", pivot), right); err != nil {
		return err
	}
	if err := tr.Merge(right); err != nil {
		return err
	}
	log.WithField("donor_empty", right.Empty()).Debug("merged")
	return show("merge", tr)
}
