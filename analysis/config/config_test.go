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

package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(name, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoad(t *testing.T) {
	name := writeConfig(t, "log-level: 4\ndot-dir: /tmp/dots\n")
	cfg, err := Load(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != int(DebugLevel) {
		t.Errorf("expected log level %d, got %d", DebugLevel, cfg.LogLevel)
	}
	if cfg.DotDir != "/tmp/dots" {
		t.Errorf("unexpected dot-dir %q", cfg.DotDir)
	}
	if cfg.RelPath() != name {
		t.Errorf("expected source file %q, got %q", name, cfg.RelPath())
	}
}

func TestLoadDefaults(t *testing.T) {
	name := writeConfig(t, "dot-dir: out\n")
	cfg, err := Load(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("an unset log-level must default to info, got %d", cfg.LogLevel)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	name := writeConfig(t, "log-level: 9\n")
	if _, err := Load(name); err == nil {
		t.Fatal("expected an error for an out-of-range log level")
	}
}

func TestLogGroupLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogGroup(NewDefault())
	logger.SetAllOutput(&buf)
	logger.SetAllFlags(log.Lmsgprefix)

	logger.Debugf("hidden")
	logger.Infof("shown")
	logger.Errorf("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug output should be suppressed at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown") || !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("missing expected output: %q", out)
	}
}
