// Package core contains the scheduling engine for the project workflow:
// standard task generation, task decomposition, phase progress aggregation
// and transition gating, critical-path computation, and capacity-aware
// assignment recommendation.
package core

import "github.com/membry/mpm/pkg/models"

// TaskTemplate describes one canonical task within a phase.
type TaskTemplate struct {
	Title          string
	Description    string
	EstimatedHours float64
}

// SubtaskTemplate describes one step of a task's decomposition. Either
// EstimatedHours is set directly (title-specific templates) or Portion
// apportions the parent's estimate (generic fallback).
type SubtaskTemplate struct {
	Title          string
	Description    string
	EstimatedHours float64
	Portion        float64
}

// phaseTaskTemplates is the fixed per-phase template list the standard task
// generator draws from. Order within a phase defines generation order and
// the intra-phase dependency chain.
var phaseTaskTemplates = map[models.Phase][]TaskTemplate{
	models.PhaseSales: {
		{Title: "Initial inquiry intake", Description: "Record the customer inquiry and qualify the opportunity", EstimatedHours: 4},
		{Title: "Customer hearing", Description: "Interview the customer to capture requirements and constraints", EstimatedHours: 6},
		{Title: "Rough estimate", Description: "Produce a ballpark cost and schedule estimate", EstimatedHours: 8},
		{Title: "Proposal presentation", Description: "Present the proposal and estimate to the customer", EstimatedHours: 4},
		{Title: "Contract signing", Description: "Finalize terms and execute the contract", EstimatedHours: 3},
	},
	models.PhaseDesign: {
		{Title: "Site survey", Description: "Survey the site and document measurements and conditions", EstimatedHours: 8},
		{Title: "Concept design", Description: "Develop the overall design concept and layout", EstimatedHours: 16},
		{Title: "Detail drawings", Description: "Produce detailed drawings for manufacturing and construction", EstimatedHours: 24},
		{Title: "Design review", Description: "Review drawings internally for feasibility and quality", EstimatedHours: 6},
		{Title: "Customer design approval", Description: "Obtain the customer's sign-off on the final design", EstimatedHours: 4},
	},
	models.PhaseManufacturing: {
		{Title: "Material procurement", Description: "Order materials and confirm delivery schedules", EstimatedHours: 8},
		{Title: "Production planning", Description: "Plan the fabrication sequence and allocate shop capacity", EstimatedHours: 6},
		{Title: "Fabrication", Description: "Fabricate components per the detail drawings", EstimatedHours: 40},
		{Title: "Quality inspection", Description: "Inspect fabricated components against specifications", EstimatedHours: 8},
	},
	models.PhaseConstruction: {
		{Title: "Site preparation", Description: "Prepare the site for installation work", EstimatedHours: 8},
		{Title: "Delivery scheduling", Description: "Coordinate delivery of fabricated components to site", EstimatedHours: 4},
		{Title: "Installation", Description: "Install and assemble components on site", EstimatedHours: 32},
		{Title: "Final inspection", Description: "Perform the final quality inspection with the customer", EstimatedHours: 6},
		{Title: "Handover", Description: "Hand over documentation and complete the project", EstimatedHours: 3},
	},
}

// PhaseTemplates returns the canonical task templates for the given phase.
// The returned slice is a copy and safe to modify.
func PhaseTemplates(phase models.Phase) []TaskTemplate {
	src := phaseTaskTemplates[phase]
	templates := make([]TaskTemplate, len(src))
	copy(templates, src)
	return templates
}

// genericSubtaskTemplates is the fallback decomposition applied to tasks
// without a title-specific template. Portions apportion the parent estimate.
var genericSubtaskTemplates = []SubtaskTemplate{
	{Title: "Planning", Description: "Plan the approach and confirm prerequisites", Portion: 0.10},
	{Title: "Execution", Description: "Carry out the main work", Portion: 0.70},
	{Title: "Review and verification", Description: "Verify the result against requirements", Portion: 0.15},
	{Title: "Completion report", Description: "Record the outcome and report completion", Portion: 0.05},
}

// subtaskTemplates holds title-specific decompositions keyed by phase and
// parent task title.
var subtaskTemplates = map[models.Phase]map[string][]SubtaskTemplate{
	models.PhaseDesign: {
		"Detail drawings": {
			{Title: "Structural drawings", Description: "Draw structural members and connections", EstimatedHours: 10},
			{Title: "Finish drawings", Description: "Draw finishes, fixtures, and fittings", EstimatedHours: 8},
			{Title: "Drawing set assembly", Description: "Assemble and cross-check the full drawing set", EstimatedHours: 6},
		},
	},
	models.PhaseManufacturing: {
		"Fabrication": {
			{Title: "Cutting and machining", Description: "Cut and machine raw materials to dimension", EstimatedHours: 14},
			{Title: "Assembly", Description: "Assemble machined parts into components", EstimatedHours: 16},
			{Title: "Surface finishing", Description: "Apply coatings and surface treatments", EstimatedHours: 10},
		},
	},
	models.PhaseConstruction: {
		"Installation": {
			{Title: "Component staging", Description: "Stage delivered components in installation order", EstimatedHours: 6},
			{Title: "Mounting and fixing", Description: "Mount components and fix them in place", EstimatedHours: 18},
			{Title: "Adjustment and fitting", Description: "Adjust alignments and fit finishing pieces", EstimatedHours: 8},
		},
	},
}

// SubtaskTemplatesFor returns the title-specific subtask templates for a
// phase and parent title, or false if only the generic fallback applies.
func SubtaskTemplatesFor(phase models.Phase, title string) ([]SubtaskTemplate, bool) {
	byTitle, ok := subtaskTemplates[phase]
	if !ok {
		return nil, false
	}
	src, ok := byTitle[title]
	if !ok {
		return nil, false
	}
	templates := make([]SubtaskTemplate, len(src))
	copy(templates, src)
	return templates, true
}
