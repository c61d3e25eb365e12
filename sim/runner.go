package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Dgut/crdt/config"
	"github.com/Dgut/crdt/crdt"
	"github.com/Dgut/crdt/replica"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
)

// Structs

// Builder creates the service for the replica called name.
// Callers use it to wrap replicas in logging and metrics.
type Builder func(name string) replica.Service

// Runner executes one configured scenario.
type Runner struct {
	logger log.Logger
	conf   config.Simulation
	build  Builder
	rnd    *rand.Rand
}

// Report summarizes a finished scenario.
type Report struct {
	Scenario string
	Replicas int
	Merges   int
	Stats    crdt.Stats
	Duration time.Duration
}

// Functions

// New returns a runner for conf. If build is
// nil, plain replicas are used.
func New(logger log.Logger, conf config.Simulation, build Builder) *Runner {

	if build == nil {
		build = func(name string) replica.Service {
			return replica.New(name)
		}
	}

	return &Runner{
		logger: log.With(logger, "scenario", conf.Scenario),
		conf:   conf,
		build:  build,
		rnd:    rand.New(rand.NewSource(conf.Seed)),
	}
}

// Scenarios lists the names Run accepts.
func Scenarios() []string {
	return []string{"convergence", "partition", "chain"}
}

// Run executes the configured scenario. It fails with
// a *DivergenceError or *CheckError if replicas do not
// end up in the expected state.
func (r *Runner) Run(ctx context.Context) (*Report, error) {

	var (
		report *Report
		err    error
	)

	start := time.Now()

	level.Info(r.logger).Log("msg", "starting scenario")

	switch r.conf.Scenario {
	case "", "convergence":
		report, err = r.convergence(ctx)
	case "partition":
		report, err = r.partition(ctx)
	case "chain":
		report, err = r.chain(ctx)
	default:
		return nil, fmt.Errorf("unknown scenario '%s'", r.conf.Scenario)
	}

	if err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)

	level.Info(r.logger).Log(
		"msg", "scenario finished",
		"replicas", report.Replicas,
		"merges", report.Merges,
		"vertices", report.Stats.Vertices,
		"edges", report.Stats.Edges,
		"tombstones", report.Stats.VertexRemovals+report.Stats.EdgeRemovals,
		"duration", report.Duration,
	)

	return report, nil
}

// replicas builds the configured replicas.
func (r *Runner) replicas() []replica.Service {

	names := r.conf.Replicas
	if len(names) == 0 {

		names = make([]string, r.conf.ReplicaCount)
		for i := range names {
			names[i] = replica.NewName()
		}
	}

	services := make([]replica.Service, len(names))
	for i, name := range names {
		services[i] = r.build(name)
	}

	return services
}

// vertex names the i-th vertex of the key space.
func vertex(i int) string {
	return fmt.Sprintf("v%d", i)
}

// workload applies n random updates to s. Each call
// uses its own source of randomness, so that replicas
// can run their workloads concurrently.
func (r *Runner) workload(s replica.Service, rnd *rand.Rand, n int) {

	for i := 0; i < n; i++ {

		a := vertex(rnd.Intn(r.conf.Vertices))
		b := vertex(rnd.Intn(r.conf.Vertices))

		switch p := rnd.Intn(100); {
		case p < 40:
			s.AddVertex(a)
		case p < 75:
			s.AddEdge(a, b)
		case p < 90:
			s.RemoveEdge(a, b)
		default:
			s.RemoveVertex(a)
		}
	}
}

// concurrently runs n updates on every replica,
// each replica in its own goroutine.
func (r *Runner) concurrently(services []replica.Service, n int) {

	seeds := make([]int64, len(services))
	for i := range seeds {
		seeds[i] = r.rnd.Int63()
	}

	var wg sync.WaitGroup

	for i, s := range services {

		wg.Add(1)
		go func(s replica.Service, seed int64) {
			defer wg.Done()
			r.workload(s, rand.New(rand.NewSource(seed)), n)
		}(s, seeds[i])
	}

	wg.Wait()
}

// gossip lets every replica merge a snapshot of one
// randomly picked peer. It returns the number of merges.
func (r *Runner) gossip(services []replica.Service) int {

	merges := 0

	for i, s := range services {

		peer := r.rnd.Intn(len(services) - 1)
		if peer >= i {
			peer++
		}

		s.Merge(services[peer].Snapshot())
		merges++
	}

	return merges
}

// exchange merges every replica's snapshot into every
// other replica, in random order. Afterwards all replicas
// hold all updates issued so far.
func (r *Runner) exchange(services []replica.Service) int {

	type pair struct{ from, to int }

	var pairs []pair
	for from := range services {

		for to := range services {

			if from != to {
				pairs = append(pairs, pair{from, to})
			}
		}
	}

	r.rnd.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	for _, p := range pairs {
		services[p.to].Merge(services[p.from].Snapshot())
	}

	return len(pairs)
}

// verify checks that all replicas hold equal graphs
// and answer edge queries the same way.
func (r *Runner) verify(services []replica.Service) error {

	reference := services[0].Snapshot()

	for _, s := range services[1:] {

		if !s.Snapshot().Equal(reference) {
			return &DivergenceError{
				Scenario: r.conf.Scenario,
				A:        services[0].Name(),
				B:        s.Name(),
			}
		}
	}

	// Equal state has to yield equal answers.
	for _, e := range reference.Edges() {

		for _, s := range services {

			if !s.ContainsEdge(e.From, e.To) {
				return &CheckError{
					Scenario: r.conf.Scenario,
					Replica:  s.Name(),
					Check:    fmt.Sprintf("missing edge %s -> %s", e.From, e.To),
				}
			}
		}
	}

	return nil
}

// convergence runs concurrent workloads interleaved
// with random gossip and a final full exchange.
func (r *Runner) convergence(ctx context.Context) (*Report, error) {

	services := r.replicas()
	merges := 0

	batch := r.conf.Operations / r.conf.GossipRounds

	for round := 0; round < r.conf.GossipRounds; round++ {

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "aborted in round %d", round)
		}

		r.concurrently(services, batch)
		merges += r.gossip(services)

		level.Debug(r.logger).Log("msg", "gossip round done", "round", round)
	}

	merges += r.exchange(services)

	if err := r.verify(services); err != nil {
		return nil, err
	}

	return &Report{
		Scenario: "convergence",
		Replicas: len(services),
		Merges:   merges,
		Stats:    services[0].Stats(),
	}, nil
}

// partition splits the replicas into two groups that
// evolve separately and merges them afterwards.
func (r *Runner) partition(ctx context.Context) (*Report, error) {

	services := r.replicas()
	left, right := services[:len(services)/2], services[len(services)/2:]
	merges := 0

	// Conflicting views on the same two vertices: the
	// left side links c1 -> c0, the right side re-adds
	// both vertices later and links c0 -> c1.
	conflict := []struct {
		s   replica.Service
		ops []replica.Op
	}{
		{left[0], []replica.Op{
			{Kind: crdt.OpAddVertex, From: "c0", T: 0},
			{Kind: crdt.OpAddVertex, From: "c1", T: 1},
			{Kind: crdt.OpAddEdge, From: "c1", To: "c0", T: 2},
		}},
		{right[0], []replica.Op{
			{Kind: crdt.OpAddVertex, From: "c0", T: 2},
			{Kind: crdt.OpAddVertex, From: "c1", T: 3},
			{Kind: crdt.OpAddEdge, From: "c0", To: "c1", T: 4},
		}},
	}

	for _, c := range conflict {

		for _, op := range c.ops {

			if err := c.s.Apply(op); err != nil {
				return nil, errors.Wrapf(err, "applying %s at %s", op, c.s.Name())
			}
		}
	}

	for _, group := range [][]replica.Service{left, right} {

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "aborted during partition")
		}

		r.concurrently(group, r.conf.Operations)

		if len(group) > 1 {
			merges += r.exchange(group)

			if err := r.verify(group); err != nil {
				return nil, err
			}
		}
	}

	level.Debug(r.logger).Log("msg", "healing partition")

	merges += r.exchange(services)

	if err := r.verify(services); err != nil {
		return nil, err
	}

	for _, s := range services {

		if !s.ContainsEdge("c0", "c1") || s.ContainsEdge("c1", "c0") {
			return nil, &CheckError{
				Scenario: r.conf.Scenario,
				Replica:  s.Name(),
				Check:    "edge c0 -> c1 should win over c1 -> c0",
			}
		}
	}

	// Removing the winning edge on one side
	// has to reach every replica.
	right[0].RemoveEdge("c0", "c1")
	merges += r.exchange(services)

	for _, s := range services {

		if s.ContainsEdge("c0", "c1") {
			return nil, &CheckError{
				Scenario: r.conf.Scenario,
				Replica:  s.Name(),
				Check:    "removed edge c0 -> c1 still present",
			}
		}
	}

	if err := r.verify(services); err != nil {
		return nil, err
	}

	return &Report{
		Scenario: "partition",
		Replicas: len(services),
		Merges:   merges,
		Stats:    services[0].Stats(),
	}, nil
}

// chain builds a chain of vertices on the first replica,
// distributes it and searches the path along all of it.
func (r *Runner) chain(ctx context.Context) (*Report, error) {

	services := r.replicas()
	origin := services[0]
	n := r.conf.ChainLength

	for i := 0; i < n; i++ {
		origin.AddVertex(vertex(i))
	}

	for i := 0; i < n-1; i++ {
		origin.AddEdge(vertex(i), vertex(i+1))
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "aborted after building chain")
	}

	snapshot := origin.Snapshot()
	for _, s := range services[1:] {
		s.Merge(snapshot)
	}

	if err := r.verify(services); err != nil {
		return nil, err
	}

	for _, s := range services {

		path := s.AnyPath(vertex(0), vertex(n-1))
		if len(path) != n {
			return nil, &CheckError{
				Scenario: r.conf.Scenario,
				Replica:  s.Name(),
				Check:    fmt.Sprintf("path along chain has %d vertices, expected %d", len(path), n),
			}
		}

		for i, v := range path {

			if v != vertex(i) {
				return nil, &CheckError{
					Scenario: r.conf.Scenario,
					Replica:  s.Name(),
					Check:    fmt.Sprintf("vertex %s at position %d of chain path", v, i),
				}
			}
		}
	}

	return &Report{
		Scenario: "chain",
		Replicas: len(services),
		Merges:   len(services) - 1,
		Stats:    origin.Stats(),
	}, nil
}
