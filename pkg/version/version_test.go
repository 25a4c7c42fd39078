//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pgedge-campaigngen "+Version) {
		t.Errorf("Unexpected version info: %s", info)
	}
	if Short() != Version {
		t.Errorf("Expected Short() %s, got %s", Version, Short())
	}
}
