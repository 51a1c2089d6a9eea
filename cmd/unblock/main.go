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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unblock-tools/ub-go-analyzer/analysis/config"
	"github.com/unblock-tools/ub-go-analyzer/analysis/facts"
	"github.com/unblock-tools/ub-go-analyzer/analysis/unblock"
	"github.com/unblock-tools/ub-go-analyzer/internal/formatutil"
)

// flags
var (
	configPath = flag.String("config", "", "config file path")
	dotDir     = flag.String("dot", "", "directory to write graphviz exports into")
	jsonOut    = flag.Bool("json", false, "print each graph as json before resolving")
	verbose    = flag.Bool("verbose", false, "verbose output")
)

const usage = `Resolve unblock queries against a procedure fact file.

Usage:
  unblock [-config config.yaml] [-dot dir] [-json] facts.yaml...

Each fact file describes one procedure: its control-flow graph, its borrow
facts, and the queries to resolve. For every query the tool builds the
transitive unblock graph, optionally specializes it to the query path, and
prints the ordered release actions.
`

func main() {
	if err := doMain(); err != nil {
		fmt.Fprintf(os.Stderr, "unblock: %s\n", err)
		os.Exit(1)
	}
}

func doMain() error {
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		c, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		cfg = c
	}
	if *verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	if *dotDir != "" {
		cfg.DotDir = *dotDir
	}
	logger := config.NewLogGroup(cfg)

	for _, filename := range flag.Args() {
		proc, err := facts.Load(filename)
		if err != nil {
			return err
		}
		logger.Infof("procedure %s: %d blocks, %d facts, %d queries",
			proc.Name, len(proc.CFG.Blocks()), len(proc.Facts.Edges()), len(proc.Queries))
		for i, query := range proc.Queries {
			if err := runQuery(proc, i, query, cfg, logger); err != nil {
				return err
			}
		}
	}
	return nil
}

func runQuery(proc *facts.Procedure, i int, query facts.Query, cfg *config.Config, logger *config.LogGroup) error {
	graph := unblock.New()
	var err error
	switch {
	case query.Unblock != nil:
		logger.Debugf("query %d: unblock %s", i, *query.Unblock)
		err = graph.UnblockPlace(*query.Unblock, proc.Facts)
	case query.ReservedAt != nil:
		logger.Debugf("query %d: kill reborrows reserved at %s", i, *query.ReservedAt)
		err = graph.KillReborrowsReservedAt(*query.ReservedAt, proc.Facts)
	}
	if err != nil {
		return fmt.Errorf("%s query %d: %w", proc.Name, i, err)
	}

	if len(query.Path) > 0 {
		logger.Debugf("query %d: filtering for path %s", i, query.Path)
		graph.FilterForPath(query.Path)
	}

	if *jsonOut {
		b, err := unblock.ToJSON(graph)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	if cfg.DotDir != "" {
		name := filepath.Join(cfg.DotDir, fmt.Sprintf("%s-query%d.dot", proc.Name, i))
		if err := unblock.GraphvizToFile(graph, name); err != nil {
			return err
		}
		logger.Infof("wrote %s", name)
	}

	actions, err := graph.Actions()
	if err != nil {
		return fmt.Errorf("%s query %d: %w", proc.Name, i, err)
	}
	fmt.Printf("%s query %d: %s\n", proc.Name, i, formatutil.Bold(fmt.Sprintf("%d actions", len(actions))))
	for j, action := range actions {
		fmt.Printf("  %2d. %s\n", j+1, formatutil.Green(action.String()))
	}
	return nil
}
