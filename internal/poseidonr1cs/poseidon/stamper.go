package poseidon

import (
	"fmt"
	"sync"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

// Instance is one stamped copy of a Master's constraint system on a caller
// protoboard: the master's constraints, translated so every variable id
// resolves to either one of the caller's own input variables or a fresh
// auxiliary block, never re-deriving the master's field arithmetic.
type Instance struct {
	master *Master
	userPB *r1cs.Protoboard

	inputVars []r1cs.Variable // the caller's own variables, one per input
	offset    int             // first index of the auxiliary block
	naux      int

	outputVars []r1cs.Variable // translated, valid only if master.params.ConstrainOutputs
	generated  bool
}

// translate implements τ from the index-translation scheme: variable 0 maps
// to the universal constant, [1, nInputs] maps directly onto the caller's own
// input variables, and everything above maps into the instance's own
// auxiliary block.
func (inst *Instance) translate(v r1cs.Variable) r1cs.Variable {
	k := int(v)
	nInputs := len(inst.inputVars)

	switch {
	case k == 0:
		return r1cs.One
	case k <= nInputs:
		return inst.inputVars[k-1]
	default:
		return r1cs.Variable(inst.offset + (k - 1 - nInputs))
	}
}

func (inst *Instance) translateLC(lc r1cs.LC) r1cs.LC {
	out := r1cs.NewLC(len(lc.Terms))
	for _, term := range lc.Terms {
		out = out.AddTerm(inst.translate(term.Var), term.Coeff)
	}
	return out
}

// NewInstance binds master's placeholder inputs directly onto the caller's
// own input variables (τ(k) = inputs[k-1], per the index-translation scheme)
// and allocates the auxiliary variable block on userPB. Binding variables
// directly, rather than through an intermediate bound-by-constraint copy,
// keeps a stamped instance constraint-identical to the master: the template
// stamping this is designed around must not cost the caller anything beyond
// what the master itself already constrains. It does not yet copy the
// master's round constraints; call GenerateConstraints for that.
func NewInstance(master *Master, userPB *r1cs.Protoboard, inputs []r1cs.Variable) (*Instance, error) {
	if len(inputs) != master.params.NInputs {
		return nil, fmt.Errorf("poseidon: expected %d inputs, got %d", master.params.NInputs, len(inputs))
	}

	offset := userPB.NumVariables()
	naux := master.NumVariables() - 1 - master.params.NInputs
	userPB.AllocateVariables(naux)

	return &Instance{
		master:    master,
		userPB:    userPB,
		inputVars: append([]r1cs.Variable(nil), inputs...),
		offset:    offset,
		naux:      naux,
	}, nil
}

// GenerateConstraints copies every master constraint into the caller's
// protoboard under the index translation, eagerly rewriting each copied
// linear combination's variable ids rather than deferring translation to
// solve time.
func (inst *Instance) GenerateConstraints() {
	for _, c := range inst.master.Constraints() {
		inst.userPB.AddConstraint(inst.translateLC(c.A), inst.translateLC(c.B), inst.translateLC(c.C))
	}

	if inst.master.params.ConstrainOutputs {
		inst.outputVars = make([]r1cs.Variable, len(inst.master.outputVars))
		for k, v := range inst.master.outputVars {
			inst.outputVars[k] = inst.translate(v)
		}
	}

	inst.generated = true
}

// GenerateWitness runs the shared master's witness under a lock, then copies
// the resulting auxiliary values (and, if constrained, the output values)
// into this instance's block on the caller protoboard. The caller's own
// input variables are expected to already carry inputValues (they are the
// caller's variables, not this instance's to assign).
func (inst *Instance) GenerateWitness(inputValues []field.Fe) error {
	if !inst.generated {
		return fmt.Errorf("poseidon: GenerateWitness called before GenerateConstraints")
	}
	if len(inputValues) != len(inst.inputVars) {
		return fmt.Errorf("poseidon: expected %d input values, got %d", len(inst.inputVars), len(inputValues))
	}

	inst.master.mu.Lock()
	defer inst.master.mu.Unlock()

	if err := inst.master.runWitness(inputValues); err != nil {
		return err
	}

	masterVars := inst.master.NumVariables()
	nInputs := len(inst.inputVars)
	for masterVar := 1 + nInputs; masterVar < masterVars; masterVar++ {
		val := inst.master.pb.Val(r1cs.Variable(masterVar))
		inst.userPB.SetVal(inst.translate(r1cs.Variable(masterVar)), val)
	}

	return nil
}

// Result returns the single output variable, valid only when the master was
// built with NOutputs=1 and ConstrainOutputs=true.
func (inst *Instance) Result() (r1cs.Variable, error) {
	if !inst.master.params.ConstrainOutputs {
		return 0, fmt.Errorf("poseidon: outputs are not constrained for this instance")
	}
	if len(inst.outputVars) != 1 {
		return 0, fmt.Errorf("poseidon: Result requires exactly one output, has %d", len(inst.outputVars))
	}
	return inst.outputVars[0], nil
}

// Results returns every constrained output variable.
func (inst *Instance) Results() ([]r1cs.Variable, error) {
	if !inst.master.params.ConstrainOutputs {
		return nil, fmt.Errorf("poseidon: outputs are not constrained for this instance")
	}
	return inst.outputVars, nil
}

var swapABOnce sync.Map // *Master -> *sync.Once

// SwapAB mutates the shared master's constraints exactly once: the first
// call performs the A/B exchange and every subsequent call (from any
// goroutine, for the same master) is a no-op. Because every stamped instance
// copies these constraints by value, the swap is visible the next time
// GenerateConstraints runs against the (now-mutated) master, not
// retroactively on instances already stamped.
func SwapAB(master *Master) {
	onceIface, _ := swapABOnce.LoadOrStore(master, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		master.mu.Lock()
		defer master.mu.Unlock()
		master.pb.SwapAB()
	})
}
