package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingSlotsPriorityOrder(t *testing.T) {
	state := &AssessmentState{Symptom: "burns"}
	assert.Equal(t, []string{"location", "severity", "duration", "context"}, state.MissingSlots())

	state.Severity = "mild"
	assert.Equal(t, []string{"location", "duration", "context"}, state.MissingSlots())

	state.Location = "left arm"
	state.Duration = "a day"
	state.Context = "while cooking"
	assert.Empty(t, state.MissingSlots())
	assert.True(t, state.Complete())
}

func TestCompleteIgnoresSymptomSlot(t *testing.T) {
	// The complaint itself comes from the opening message; completion is
	// judged on the four detail slots only.
	state := &AssessmentState{
		Severity: "mild",
		Duration: "a day",
		Location: "left arm",
		Context:  "after exercise",
	}
	assert.True(t, state.Complete())
}
