package domain

import "fmt"

// Step is one allowed transition of the workflow state machine.
type Step struct {
	Name                string
	From                TransactionState
	To                  TransactionState
	Requires            []Capability // actor needs at least one
	DistinctFromCreator bool
}

// WorkflowPolicy is the ordered list of transitions a deployment enforces.
type WorkflowPolicy struct {
	Name     string
	Initial  TransactionState
	Steps    []Step
	AutoPost bool // post immediately after creation
}

const (
	PolicyThreeStep = "three_step"
	PolicyOneStep   = "one_step"
)

var reverseStep = Step{
	Name:     "reverse",
	From:     StatePosted,
	To:       StateReversed,
	Requires: []Capability{CapApprover, CapTreasurer},
}

// ThreeStepPolicy is Draft -> Verified -> Approved -> Posted with four-eyes review.
func ThreeStepPolicy() WorkflowPolicy {
	return WorkflowPolicy{
		Name:    PolicyThreeStep,
		Initial: StateDraft,
		Steps: []Step{
			{Name: "verify", From: StateDraft, To: StateVerified, Requires: []Capability{CapVerifier}, DistinctFromCreator: true},
			{Name: "approve", From: StateVerified, To: StateApproved, Requires: []Capability{CapApprover, CapTreasurer}, DistinctFromCreator: true},
			{Name: "post", From: StateApproved, To: StatePosted, Requires: []Capability{CapApprover, CapTreasurer}},
			reverseStep,
		},
	}
}

// OneStepPolicy treats creation as the approval and posts straight away.
func OneStepPolicy() WorkflowPolicy {
	return WorkflowPolicy{
		Name:    PolicyOneStep,
		Initial: StateApproved,
		Steps: []Step{
			{Name: "post", From: StateApproved, To: StatePosted, Requires: []Capability{CapCreator, CapTreasurer}},
			reverseStep,
		},
		AutoPost: true,
	}
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (WorkflowPolicy, error) {
	switch name {
	case "", PolicyThreeStep:
		return ThreeStepPolicy(), nil
	case PolicyOneStep:
		return OneStepPolicy(), nil
	}
	return WorkflowPolicy{}, fmt.Errorf("unknown approval policy %q", name)
}

// Find returns the step moving from -> to, if the policy allows it.
func (p WorkflowPolicy) Find(from, to TransactionState) (Step, bool) {
	for _, s := range p.Steps {
		if s.From == from && s.To == to {
			return s, true
		}
	}
	return Step{}, false
}

// StepTo returns the policy's step that ends in state to.
func (p WorkflowPolicy) StepTo(to TransactionState) (Step, bool) {
	for _, s := range p.Steps {
		if s.To == to {
			return s, true
		}
	}
	return Step{}, false
}
