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
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runConfig struct {
	keys     int
	ops      int
	seed     int64
	workload string
	impls    []string
	degree   int
	verify   bool
}

func (c *runConfig) validate() error {
	switch {
	case c.keys <= 0:
		return errors.Newf("--keys must be positive, got %d", c.keys)
	case c.ops < 0:
		return errors.Newf("--ops must not be negative, got %d", c.ops)
	case c.degree <= 1:
		return errors.Newf("--degree must be at least 2, got %d", c.degree)
	case len(c.impls) == 0:
		return errors.New("no --impl given")
	}
	if _, ok := keyPickers[c.workload]; !ok {
		return errors.Newf("unknown --workload %q", c.workload)
	}
	for _, impl := range c.impls {
		if _, ok := newOrderedMap(impl, c.degree); !ok {
			return errors.Newf("unknown --impl %q (want one of %v)", impl, knownImpls)
		}
	}
	return nil
}

func newRunCmd(log *logrus.Logger) *cobra.Command {
	cfg := runConfig{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay one generated workload against each implementation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			_, err := runBench(cfg, log)
			return err
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&cfg.keys, "keys", 10000, "number of distinct keys")
	flags.IntVar(&cfg.ops, "ops", 100000, "number of operations to replay")
	flags.Int64Var(&cfg.seed, "seed", 1, "workload seed")
	flags.StringVar(&cfg.workload, "workload", "uniform", "key distribution: uniform, sequential or hotset")
	flags.StringSliceVar(&cfg.impls, "impl", knownImpls, "implementations to run")
	flags.IntVar(&cfg.degree, "degree", 32, "B-tree degree")
	flags.BoolVar(&cfg.verify, "verify", false, "check splay tree invariants after the run")
	return cmd
}

type opKind int

const (
	opPut opKind = iota
	opGet
	opDelete
	opMax
)

type op struct {
	kind  opKind
	key   int
	value int
}

// keyPickers choose the key for the i'th operation.
var keyPickers = map[string]func(rng *rand.Rand, i, keys int) int{
	"uniform": func(rng *rand.Rand, i, keys int) int {
		return rng.Intn(keys)
	},
	"sequential": func(rng *rand.Rand, i, keys int) int {
		return i % keys
	},
	// Nine in ten operations hit one percent of the key space.
	"hotset": func(rng *rand.Rand, i, keys int) int {
		hot := keys / 100
		if hot == 0 {
			hot = 1
		}
		if rng.Intn(10) < 9 {
			return rng.Intn(hot)
		}
		return rng.Intn(keys)
	},
}

func generate(cfg runConfig) (preload []int, ops []op) {
	rng := rand.New(rand.NewSource(cfg.seed))
	preload = rng.Perm(cfg.keys)
	pick := keyPickers[cfg.workload]
	ops = make([]op, cfg.ops)
	for i := range ops {
		o := op{key: pick(rng, i, cfg.keys)}
		switch r := rng.Intn(100); {
		case r < 40:
			o.kind, o.value = opPut, rng.Int()
		case r < 80:
			o.kind = opGet
		case r < 95:
			o.kind = opDelete
		default:
			o.kind = opMax
		}
		ops[i] = o
	}
	return preload, ops
}

type result struct {
	impl     string
	hits     int
	misses   int
	checksum uint64
	elapsed  time.Duration
}

func replay(m orderedMap, ops []op) (r result) {
	mix := func(v int) {
		r.checksum = (r.checksum ^ uint64(v)) * 1099511628211
	}
	start := time.Now()
	for _, o := range ops {
		switch o.kind {
		case opPut:
			m.Put(o.key, o.value)
		case opGet:
			v, ok := m.Get(o.key)
			if !ok {
				r.misses++
				continue
			}
			r.hits++
			mix(v)
		case opDelete:
			if m.Delete(o.key) {
				mix(o.key)
			}
		case opMax:
			if v, ok := m.Max(); ok {
				mix(v)
			}
		}
	}
	r.elapsed = time.Since(start)
	return r
}

// runBench replays the configured workload against every implementation and
// fails if their observable results differ.
func runBench(cfg runConfig, log *logrus.Logger) ([]result, error) {
	preload, ops := generate(cfg)
	results := make([]result, 0, len(cfg.impls))
	for _, impl := range cfg.impls {
		m, ok := newOrderedMap(impl, cfg.degree)
		if !ok {
			return nil, errors.Newf("unknown implementation %q", impl)
		}
		for _, k := range preload {
			m.Put(k, k)
		}
		r := replay(m, ops)
		r.impl = impl
		entry := log.WithFields(logrus.Fields{
			"impl":     impl,
			"workload": cfg.workload,
			"ops":      len(ops),
			"elapsed":  r.elapsed,
			"hits":     r.hits,
			"misses":   r.misses,
			"checksum": fmt.Sprintf("%016x", r.checksum),
		})
		if sm, ok := m.(*splayMap); ok && cfg.verify {
			if err := sm.t.Verify(); err != nil {
				entry.WithError(err).Error("splay tree invariants violated")
				return nil, err
			}
			entry.Debug("splay tree invariants hold")
		}
		entry.Info("workload complete")
		results = append(results, r)
	}
	if len(results) < 2 {
		return results, nil
	}
	for _, r := range results[1:] {
		if r.checksum != results[0].checksum || r.hits != results[0].hits {
			return results, errors.Newf("%s and %s disagree: checksum %016x vs %016x",
				results[0].impl, r.impl, results[0].checksum, r.checksum)
		}
	}
	return results, nil
}
