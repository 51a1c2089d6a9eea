// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package facts loads procedure descriptions (a CFG, a set of borrow facts,
// and the queries to run against them) from yaml files, for drivers and tests
// that do not embed the analysis in a host compiler.
package facts

import (
	"fmt"
	"os"

	"github.com/unblock-tools/ub-go-analyzer/analysis/borrows"
	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
	"gopkg.in/yaml.v3"
)

// EdgeSpec is one CFG edge in the file.
type EdgeSpec struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// PlaceSpec is an abstract place in the file.
type PlaceSpec struct {
	Local      int      `yaml:"local"`
	Projection []string `yaml:"projection"`
}

// LocationSpec is a program point in the file.
type LocationSpec struct {
	Block int `yaml:"block"`
	Stmt  int `yaml:"stmt"`
}

func (l LocationSpec) location() borrows.Location {
	return borrows.Location{Block: cfg.BlockID(l.Block), Stmt: l.Stmt}
}

// RefSpec is a place reference in the file: a current place by default, a
// snapshot when snapshot is set, a caller-side place when remote is set.
type RefSpec struct {
	PlaceSpec `yaml:",inline"`
	Snapshot  *LocationSpec `yaml:"snapshot"`
	Remote    bool          `yaml:"remote"`
}

func (r RefSpec) ref() borrows.PlaceRef {
	place := borrows.NewPlace(borrows.Local(r.Local), r.Projection...)
	switch {
	case r.Remote:
		return borrows.Remote(borrows.Local(r.Local))
	case r.Snapshot != nil:
		return borrows.Old(place, r.Snapshot.location())
	default:
		return borrows.Current(place)
	}
}

// ReborrowSpec is one reborrow fact.
type ReborrowSpec struct {
	Blocked    RefSpec      `yaml:"blocked"`
	Assigned   RefSpec      `yaml:"assigned"`
	Mutable    bool         `yaml:"mutable"`
	ReservedAt LocationSpec `yaml:"reserved-at"`
	Conditions []EdgeSpec   `yaml:"conditions"`
}

// ExpansionSpec is one structural-expansion fact.
type ExpansionSpec struct {
	Base       RefSpec    `yaml:"base"`
	Fields     []RefSpec  `yaml:"fields"`
	AtBlock    *int       `yaml:"at-block"`
	Conditions []EdgeSpec `yaml:"conditions"`
}

// AbstractionSpec is one region-abstraction fact.
type AbstractionSpec struct {
	At         LocationSpec `yaml:"at"`
	Blockers   []RefSpec    `yaml:"blockers"`
	Blocked    []RefSpec    `yaml:"blocked"`
	Conditions []EdgeSpec   `yaml:"conditions"`
}

// RegionMemberSpec is one region-projection-membership fact.
type RegionMemberSpec struct {
	Region     int          `yaml:"region"`
	Place      RefSpec      `yaml:"place"`
	At         LocationSpec `yaml:"at"`
	Conditions []EdgeSpec   `yaml:"conditions"`
}

// FactsSpec groups the borrow facts of a procedure.
type FactsSpec struct {
	Reborrows     []ReborrowSpec     `yaml:"reborrows"`
	Expansions    []ExpansionSpec    `yaml:"expansions"`
	Abstractions  []AbstractionSpec  `yaml:"abstractions"`
	RegionMembers []RegionMemberSpec `yaml:"region-members"`
}

// QuerySpec is one resolution request: exactly one of unblock or reserved-at
// must be set; path optionally specializes the graph to a concrete trace
// before resolving.
type QuerySpec struct {
	Unblock    *RefSpec      `yaml:"unblock"`
	ReservedAt *LocationSpec `yaml:"reserved-at"`
	Path       []int         `yaml:"path"`
}

// File is the on-disk shape of a procedure description.
type File struct {
	Procedure string      `yaml:"procedure"`
	Entry     int         `yaml:"entry"`
	CFG       []EdgeSpec  `yaml:"cfg"`
	Facts     FactsSpec   `yaml:"facts"`
	Queries   []QuerySpec `yaml:"queries"`
}

// Query is a resolved resolution request.
type Query struct {
	Unblock    *borrows.PlaceRef
	ReservedAt *borrows.Location
	Path       cfg.Path
}

// Procedure is a loaded procedure description.
type Procedure struct {
	Name    string
	CFG     *cfg.Graph
	Facts   *borrows.FactSet
	Queries []Query
}

// Load reads and validates the procedure description in filename.
func Load(filename string) (*Procedure, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read facts file %q: %w", filename, err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("facts file %q: %w", filename, err)
	}
	return p, nil
}

// Parse parses and validates a procedure description.
func Parse(b []byte) (*Procedure, error) {
	var file File
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("could not parse yaml: %w", err)
	}

	graph := cfg.NewGraph(cfg.BlockID(file.Entry))
	for _, e := range file.CFG {
		graph.AddEdge(cfg.BlockID(e.From), cfg.BlockID(e.To))
	}

	set := borrows.NewFactSet()
	for i, rb := range file.Facts.Reborrows {
		if rb.Blocked.ref().Equal(rb.Assigned.ref()) {
			return nil, fmt.Errorf("reborrow %d: blocked and assigned are the same place", i)
		}
		set.Add(borrows.NewEdge(&borrows.Reborrow{
			Blocked:    rb.Blocked.ref(),
			Assigned:   rb.Assigned.ref(),
			Mutable:    rb.Mutable,
			ReservedAt: rb.ReservedAt.location(),
		}, buildConditions(rb.ReservedAt.Block, rb.Conditions)))
	}
	for i, ex := range file.Facts.Expansions {
		if len(ex.Fields) == 0 {
			return nil, fmt.Errorf("expansion %d: no fields", i)
		}
		atBlock := file.Entry
		if ex.AtBlock != nil {
			atBlock = *ex.AtBlock
		}
		set.Add(borrows.NewEdge(&borrows.Expansion{
			Base:   ex.Base.ref(),
			Fields: refList(ex.Fields),
		}, buildConditions(atBlock, ex.Conditions)))
	}
	for i, abs := range file.Facts.Abstractions {
		if len(abs.Blocked) == 0 {
			return nil, fmt.Errorf("abstraction %d: blocks no place", i)
		}
		set.Add(borrows.NewEdge(&borrows.Abstraction{
			At:       abs.At.location(),
			Blockers: refList(abs.Blockers),
			Blocked:  refList(abs.Blocked),
		}, buildConditions(abs.At.Block, abs.Conditions)))
	}
	for _, m := range file.Facts.RegionMembers {
		set.Add(borrows.NewEdge(&borrows.RegionMember{
			Region: m.Region,
			Place:  m.Place.ref(),
			At:     m.At.location(),
		}, buildConditions(m.At.Block, m.Conditions)))
	}

	queries := make([]Query, 0, len(file.Queries))
	for i, q := range file.Queries {
		if (q.Unblock == nil) == (q.ReservedAt == nil) {
			return nil, fmt.Errorf("query %d: exactly one of unblock or reserved-at must be set", i)
		}
		query := Query{}
		if q.Unblock != nil {
			ref := q.Unblock.ref()
			query.Unblock = &ref
		}
		if q.ReservedAt != nil {
			loc := q.ReservedAt.location()
			query.ReservedAt = &loc
		}
		for _, b := range q.Path {
			if !graph.HasBlock(cfg.BlockID(b)) {
				return nil, fmt.Errorf("query %d: path block %d is not in the cfg", i, b)
			}
			query.Path = append(query.Path, cfg.BlockID(b))
		}
		queries = append(queries, query)
	}

	return &Procedure{
		Name:    file.Procedure,
		CFG:     graph,
		Facts:   set,
		Queries: queries,
	}, nil
}

func refList(specs []RefSpec) []borrows.PlaceRef {
	refs := make([]borrows.PlaceRef, len(specs))
	for i, s := range specs {
		refs[i] = s.ref()
	}
	return refs
}

// buildConditions materializes the path conditions of a fact: the edge list
// when one is given, the degenerate at-block condition otherwise.
func buildConditions(atBlock int, conds []EdgeSpec) borrows.PathConditions {
	if len(conds) == 0 {
		return borrows.NewPathConditions(cfg.BlockID(atBlock))
	}
	pcs := make([]borrows.PathCondition, len(conds))
	for i, c := range conds {
		pcs[i] = borrows.NewPathCondition(cfg.BlockID(c.From), cfg.BlockID(c.To))
	}
	return borrows.PathsFrom(pcs...)
}
