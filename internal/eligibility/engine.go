package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Engine holds the registered institution dispatchers.
type Engine struct {
	order   []*Institution
	byKey   map[string]*Institution
	offline *Institution
}

// NewEngine registers the given institutions, or the built-in set when none are given.
func NewEngine(institutions ...*Institution) *Engine {
	if len(institutions) == 0 {
		institutions = []*Institution{KNUST(), UG(), UCC(), UEW()}
	}
	e := &Engine{byKey: map[string]*Institution{}, offline: Offline()}
	for _, inst := range institutions {
		e.order = append(e.order, inst)
		e.byKey[NormalizeProgram(inst.Code)] = inst
		e.byKey[NormalizeProgram(inst.Name)] = inst
		for _, alias := range inst.Aliases {
			e.byKey[NormalizeProgram(alias)] = inst
		}
	}
	return e
}

// Institutions lists registered dispatchers in registration order.
func (e *Engine) Institutions() []*Institution {
	return append([]*Institution{}, e.order...)
}

// Institution returns the dispatcher for a code, name or alias.
func (e *Engine) Institution(code string) (*Institution, bool) {
	if NormalizeProgram(code) == CodeOffline {
		return e.offline, true
	}
	inst, ok := e.byKey[NormalizeProgram(code)]
	return inst, ok
}

// Resolve returns the dispatcher responsible for a programme, falling back to the offline one.
func (e *Engine) Resolve(program models.Program) *Institution {
	if inst, ok := e.byKey[NormalizeProgram(program.UniversityID)]; ok {
		return inst
	}
	if inst, ok := e.byKey[NormalizeProgram(program.UniversityName)]; ok {
		return inst
	}
	return e.offline
}

// ProgramsFor filters programmes owned by inst.
func (e *Engine) ProgramsFor(inst *Institution, programs []models.Program) []models.Program {
	if inst == e.offline {
		return programs
	}
	var owned []models.Program
	for _, p := range programs {
		if e.Resolve(p) == inst {
			owned = append(owned, p)
		}
	}
	return owned
}

// Check runs one institution's dispatcher over its own programmes.
func (e *Engine) Check(code string, grades models.StudentGrades, programs []models.Program, requirements []models.Requirement) ([]models.EligibilityResult, bool) {
	inst, ok := e.Institution(code)
	if !ok {
		return nil, false
	}
	if inst == e.offline {
		return e.CheckOffline(grades, programs, requirements), true
	}
	return CheckEligibility(inst, grades, e.ProgramsFor(inst, programs), requirements), true
}

// CheckOffline evaluates every programme with the dispatcher of its own university
// and orders ties by university name.
func (e *Engine) CheckOffline(grades models.StudentGrades, programs []models.Program, requirements []models.Requirement) []models.EligibilityResult {
	return aggregate(NewRun(grades), programs, requirements, e.Resolve, true)
}
