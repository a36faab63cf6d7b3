package sat

import (
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Stats aggregates the solver usage counters of one solver instance
type Stats struct {
	VarNum       int
	ClauseNum    int
	SolveCount   int
	SatCount     int
	UnsatCount   int
	UnknownCount int
	SolveTime    time.Duration
}

// Options selects and configures a solver backend
type Options struct {
	// Type names the backend; "gini" (the default) is the only
	// built-in one
	Type string
	// Timeout bounds one solve call; zero means no limit and Solve
	// never returns B3X
	Timeout time.Duration
}

// Solver is the black-box CNF interface consumed by the encoders and
// drivers
type Solver interface {
	// NewVariable allocates a fresh variable and returns its positive
	// literal
	NewVariable() Lit
	// AddClause adds a disjunction of literals
	AddClause(lits ...Lit)
	// Solve checks satisfiability under the given assumptions
	Solve(assumptions []Lit) Bool3
	// Model returns the assignment found by the last satisfiable
	// Solve call
	Model() Model
	// Stats returns the usage counters
	Stats() Stats
}

// NewSolver creates a solver for the given options
func NewSolver(opts Options) (Solver, error) {
	switch opts.Type {
	case "", "gini":
		return &giniSolver{g: gini.New(), timeout: opts.Timeout}, nil
	default:
		return nil, fmt.Errorf("sat: unknown solver type %q", opts.Type)
	}
}

// giniSolver adapts the gini CDCL solver to the Solver interface
type giniSolver struct {
	g       *gini.Gini
	timeout time.Duration
	varNum  int
	model   Model
	stats   Stats
}

func toGini(l Lit) z.Lit {
	gl := z.Var(l.Var()).Pos()
	if l.IsNeg() {
		gl = gl.Not()
	}
	return gl
}

func (s *giniSolver) NewVariable() Lit {
	gl := s.g.Lit()
	s.varNum++
	s.stats.VarNum = s.varNum
	return PosLit(VarID(gl.Var()))
}

func (s *giniSolver) AddClause(lits ...Lit) {
	for _, l := range lits {
		s.g.Add(toGini(l))
	}
	s.g.Add(z.LitNull)
	s.stats.ClauseNum++
}

func (s *giniSolver) Solve(assumptions []Lit) Bool3 {
	for _, l := range assumptions {
		s.g.Assume(toGini(l))
	}
	start := time.Now()
	var res int
	if s.timeout > 0 {
		res = s.g.GoSolve().Try(s.timeout)
	} else {
		res = s.g.Solve()
	}
	s.stats.SolveTime += time.Since(start)
	s.stats.SolveCount++
	switch res {
	case 1:
		s.stats.SatCount++
		s.captureModel()
		return B3True
	case -1:
		s.stats.UnsatCount++
		return B3False
	default:
		s.stats.UnknownCount++
		return B3X
	}
}

func (s *giniSolver) captureModel() {
	m := make(Model, s.varNum+1)
	for v := 1; v <= s.varNum; v++ {
		if s.g.Value(z.Var(v).Pos()) {
			m[v] = B3True
		} else {
			m[v] = B3False
		}
	}
	s.model = m
}

func (s *giniSolver) Model() Model {
	return s.model
}

func (s *giniSolver) Stats() Stats {
	return s.stats
}
