package journey

import (
	"fmt"
	"sync"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type goalEnv struct {
	Done []bool `expr:"done"`
}

var goalPrograms = map[domain.LogicOperator]string{
	domain.LogicAnd: `len(done) > 0 && all(done, #)`,
	domain.LogicOr:  `any(done, #)`,
}

var (
	compileGoalsOnce sync.Once
	compiledGoals    map[domain.LogicOperator]*vm.Program
	compileGoalsErr  error
)

func goalProgram(op domain.LogicOperator) (*vm.Program, error) {
	compileGoalsOnce.Do(func() {
		compiledGoals = make(map[domain.LogicOperator]*vm.Program, len(goalPrograms))
		for k, src := range goalPrograms {
			prg, err := expr.Compile(src, expr.Env(goalEnv{}), expr.AsBool())
			if err != nil {
				compileGoalsErr = fmt.Errorf("compiling %s goal logic: %w", k, err)
				return
			}
			compiledGoals[k] = prg
		}
	})
	if compileGoalsErr != nil {
		return nil, compileGoalsErr
	}
	prg, ok := compiledGoals[op]
	if !ok {
		return nil, fmt.Errorf("unknown goal logic operator %q", op)
	}
	return prg, nil
}

// EvaluateGoals combines the completion of every non-deleted goal with op.
// A journey without goals is never satisfied.
func EvaluateGoals(op domain.LogicOperator, goals []domain.Goal) (bool, error) {
	if op == "" {
		op = domain.LogicAnd
	}
	prg, err := goalProgram(op)
	if err != nil {
		return false, err
	}
	env := goalEnv{Done: []bool{}}
	for _, g := range goals {
		if g.IsDeleted() {
			continue
		}
		env.Done = append(env.Done, g.IsCompleted())
	}
	out, err := expr.Run(prg, env)
	if err != nil {
		return false, fmt.Errorf("evaluating goal logic: %w", err)
	}
	return out.(bool), nil
}

// GoalsSatisfied reports whether the journey's goals are met under its
// logic operator.
func (s *Store) GoalsSatisfied() (bool, error) {
	s.mu.Lock()
	op := s.j.GoalLogicOperator
	goals := append([]domain.Goal(nil), s.j.Goals...)
	s.mu.Unlock()
	return EvaluateGoals(op, goals)
}
