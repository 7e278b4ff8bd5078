package battlehost

import (
	"os"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/scheduler"
)

// PlayerSpec is one trainer slot's starting roster, already fully
// resolved (stats, moveset, PP, item, ability) by the host's own team
// builder — this engine never computes IV/EV/nature math itself (see
// battle.Stats), so Options takes finished battle.Mon values rather
// than a species+level descriptor.
type PlayerSpec struct {
	Name string
	Wild bool
	Team []battle.Mon
}

// SideSpec groups the players battling from one side of the field.
type SideSpec struct {
	Players []PlayerSpec
}

// Options configures Battle::new (spec.md §6). ActivePerPlayer controls
// the format (1 singles, 2 doubles, 3 triples, ...); AdjacencyReach is
// consulted by the end-of-turn shift whenever a side fields more than
// one active slot.
type Options struct {
	Seed            uint64
	Tie             scheduler.TieRule
	AdjacencyReach  int
	ActivePerPlayer int
	AutoContinue    bool
	Sides           []SideSpec
}

// DataDirEnvVar is the environment variable the reference local
// DataStore honors (spec.md §6 "Environment").
const DataDirEnvVar = "DATA_DIR"

// ResolveDataDir returns the DATA_DIR environment variable, or
// fallback if it is unset. Hosts that supply their own DataStore
// implementation never need to call this.
func ResolveDataDir(fallback string) string {
	if v := os.Getenv(DataDirEnvVar); v != "" {
		return v
	}
	return fallback
}
