package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/evacuate"
	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

// EvacuationService wires discovery, planning and execution of a datastore
// evacuation.
type EvacuationService struct {
	conn     *vmware.Connection
	operator vmware.VMOperator
	pick     func(n int) int
}

// NewEvacuationService creates the service on a live connection. pick
// overrides destination randomness; nil keeps the default generator.
func NewEvacuationService(conn *vmware.Connection, pick func(n int) int) *EvacuationService {
	return &EvacuationService{conn: conn, operator: vmware.NewManager(conn), pick: pick}
}

// EvacuationParams mirror the evacuate-datastore command surface.
type EvacuationParams struct {
	SourceLocation   string
	Destination      string
	ExcludeNames     []string
	ExcludeTemplates bool
	DryRun           bool
	RunAsync         bool
}

// EvacuationOutcome is everything one run produced: per-object results,
// reported skips, and the handles of still-running asynchronous tasks.
type EvacuationOutcome struct {
	Source  string
	Results []models.RelocationResult
	Skipped []models.SkippedObject
	Handles []vmware.Task
}

// Evacuate empties the source datastore according to params. Resolution
// failures of the source or the destination pool are fatal; per-object
// relocation failures are recorded in the outcome and do not stop the run.
func (s *EvacuationService) Evacuate(ctx context.Context, params EvacuationParams) (*EvacuationOutcome, error) {
	log := zap.S().Named("evacuation_service")

	source, candidates, err := evacuate.Discover(ctx, s.conn, params.SourceLocation)
	if err != nil {
		return nil, err
	}
	log.Infow("discovered candidates", "source", source.Name, "count", len(candidates))

	pool, err := evacuate.ResolvePool(ctx, s.conn, params.Destination)
	if err != nil {
		return nil, err
	}

	planner := evacuate.NewPlanner(source.Name, pool, s.pick)
	plans, skipped, err := planner.Plan(candidates, params.ExcludeNames, params.ExcludeTemplates)
	if err != nil {
		return nil, err
	}

	executor := evacuate.NewExecutor(s.operator, source.Name)
	results, handles := executor.Run(ctx, plans, evacuate.Options{
		DryRun:   params.DryRun,
		RunAsync: params.RunAsync,
	})

	return &EvacuationOutcome{
		Source:  source.Name,
		Results: results,
		Skipped: skipped,
		Handles: handles,
	}, nil
}
