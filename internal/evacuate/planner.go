package evacuate

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
)

// Planner assigns destination pool members to everything resident on the
// source datastore. Selection is uniformly random and independent per disk
// and per config file; two disks of the same VM may land on different pool
// members. The randomness source is injectable for tests.
type Planner struct {
	source string
	pool   []models.Target
	pick   func(n int) int
}

// NewPlanner creates a planner for the named source datastore and
// destination pool. pick selects an index in [0,n); nil uses a time-seeded
// generator.
func NewPlanner(source string, pool []models.Target, pick func(n int) int) *Planner {
	if pick == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		pick = rng.Intn
	}
	return &Planner{source: source, pool: pool, pick: pick}
}

// Plan produces a RelocationPlan per eligible candidate and a SkippedObject
// per exclusion. A candidate is skipped when its name is in excludeNames, or
// when it is a template and excludeTemplates is set.
func (p *Planner) Plan(candidates []models.Candidate, excludeNames []string, excludeTemplates bool) ([]models.RelocationPlan, []models.SkippedObject, error) {
	if len(p.pool) == 0 {
		return nil, nil, vcerrors.NewResolutionError("destination pool", p.source, 0)
	}

	excluded := make(map[string]struct{}, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = struct{}{}
	}

	log := zap.S().Named("planner")

	var plans []models.RelocationPlan
	var skips []models.SkippedObject
	for _, cand := range candidates {
		if _, ok := excluded[cand.Name]; ok {
			skips = append(skips, models.SkippedObject{Name: cand.Name, Reason: models.SkipExcludedName})
			continue
		}
		if cand.Template && excludeTemplates {
			skips = append(skips, models.SkippedObject{Name: cand.Name, Reason: models.SkipTemplate})
			continue
		}

		plan := models.RelocationPlan{Candidate: cand}
		if cand.ConfigDatastore == p.source {
			target := p.pool[p.pick(len(p.pool))]
			plan.ConfigTarget = &target
		}
		for _, disk := range cand.Disks {
			move := models.DiskMove{Key: disk.Key, From: disk.Datastore}
			if disk.Datastore == p.source {
				target := p.pool[p.pick(len(p.pool))]
				move.Target = &target
			}
			plan.DiskMoves = append(plan.DiskMoves, move)
		}

		if !plan.MustMove() {
			// Nothing of this object is resident on the source; the
			// datastore listed it for some other file. Leave it untouched.
			log.Debugw("candidate has nothing on source", "name", cand.Name)
			continue
		}
		plans = append(plans, plan)
	}

	log.Infow("planning complete",
		"source", p.source,
		"pool", len(p.pool),
		"plans", len(plans),
		"skipped", len(skips),
	)
	return plans, skips, nil
}
