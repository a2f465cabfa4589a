package models

import (
	"github.com/vmware/govmomi/vim25/types"
)

// Target is one member of the destination pool.
type Target struct {
	Name string
	Ref  types.ManagedObjectReference
}

// DiskLocation records where one virtual disk of a candidate currently
// lives.
type DiskLocation struct {
	Key       int32
	Datastore string
}

// Candidate is a VM or template referencing the source datastore through its
// config files and/or any disk backing.
type Candidate struct {
	Ref             types.ManagedObjectReference
	Name            string
	Template        bool
	ConfigDatastore string
	Host            types.ManagedObjectReference
	Disks           []DiskLocation
}

// DiskMove is the planned placement for one disk. A nil Target is an
// explicit no-op entry: the disk is not on the source and keeps its current
// backing.
type DiskMove struct {
	Key    int32
	From   string
	Target *Target
}

// RelocationPlan is the computed placement for one candidate. ConfigTarget
// is nil when the config files are not on the source.
type RelocationPlan struct {
	Candidate    Candidate
	ConfigTarget *Target
	DiskMoves    []DiskMove
}

// MustMove reports whether the plan relocates anything at all.
func (p RelocationPlan) MustMove() bool {
	if p.ConfigTarget != nil {
		return true
	}
	for _, m := range p.DiskMoves {
		if m.Target != nil {
			return true
		}
	}
	return false
}

// SkipReason says why a candidate produced no plan.
type SkipReason string

const (
	SkipExcludedName SkipReason = "excluded by name"
	SkipTemplate     SkipReason = "templates excluded"
)

// SkippedObject reports a candidate that was excluded from planning. Skips
// are reported, never silently dropped.
type SkippedObject struct {
	Name   string     `json:"name"`
	Reason SkipReason `json:"reason"`
}

// RelocationResult is the per-object outcome of executing (or simulating)
// one plan. The record shape is identical for dry runs and real runs; only
// the mutation differs.
type RelocationResult struct {
	Object       string   `json:"object"`
	Template     bool     `json:"template"`
	DryRun       bool     `json:"dryRun"`
	Source       string   `json:"source"`
	ConfigTarget string   `json:"configTarget,omitempty"`
	DiskTargets  []string `json:"diskTargets,omitempty"`
	Async        bool     `json:"async,omitempty"`
	Error        string   `json:"error,omitempty"`
}
