package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validApplicant() func(*FormData) {
	return func(d *FormData) {
		d.FullName = "Ada Deniz"
		d.Email = "ada@example.com"
		d.Phone = "+90 532 000 11 22"
		d.Categories = []string{"development"}
		d.Expertise = []string{"web"}
		d.About = "Full-stack developer with agency experience."
		d.Consent = true
	}
}

func TestAdvanceBlockedByUnmetRules(t *testing.T) {
	w := New(FreelancerSteps())
	require.Equal(t, 1, w.Current())

	err := w.Advance()
	require.Error(t, err)
	require.Equal(t, 1, w.Current(), "failed advance must not move the wizard")

	stepErr, ok := err.(*StepError)
	require.True(t, ok)
	require.Equal(t, 1, stepErr.Step)

	fields := make([]string, 0, len(stepErr.Fields))
	for _, f := range stepErr.Fields {
		fields = append(fields, f.Field)
	}
	require.Contains(t, fields, "full_name")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "phone")
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	w := New(FreelancerSteps())
	w.Update(validApplicant())

	for i := 1; i < len(w.Steps()); i++ {
		require.NoError(t, w.Advance())
		require.Equal(t, i+1, w.Current())
	}

	data, err := w.Finalize()
	require.NoError(t, err)
	require.Equal(t, "Ada Deniz", data.FullName)
}

func TestRetreatKeepsData(t *testing.T) {
	w := New(FreelancerSteps())
	w.Update(validApplicant())
	require.NoError(t, w.Advance())

	w.Retreat()
	require.Equal(t, 1, w.Current())
	require.Equal(t, "ada@example.com", w.Data().Email)

	w.Retreat()
	require.Equal(t, 1, w.Current(), "retreat below the first step is a no-op")
}

func TestJumpToRules(t *testing.T) {
	w := New(FreelancerSteps())
	w.Update(validApplicant())

	require.ErrorIs(t, w.JumpTo(0), ErrNoSuchStep)
	require.ErrorIs(t, w.JumpTo(9), ErrNoSuchStep)
	require.ErrorIs(t, w.JumpTo(3), ErrStepNotValidated)

	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.NoError(t, w.JumpTo(1), "moving backwards is always allowed")
	require.NoError(t, w.JumpTo(2), "previously validated steps stay reachable")
}

func TestCategoryChangePrunesExpertise(t *testing.T) {
	w := New(FreelancerSteps())
	w.Update(func(d *FormData) {
		d.Categories = []string{"development", "design"}
		d.Expertise = []string{"web", "ui"}
	})
	require.ElementsMatch(t, []string{"web", "ui"}, w.Data().Expertise)

	w.Update(func(d *FormData) {
		d.Categories = []string{"design"}
	})
	require.Equal(t, []string{"ui"}, w.Data().Expertise, "expertise outside the remaining categories must be dropped")
}

func TestFinalizeRevalidatesEveryStep(t *testing.T) {
	w := New(FreelancerSteps())
	w.Update(validApplicant())
	for i := 1; i < len(w.Steps()); i++ {
		require.NoError(t, w.Advance())
	}

	// Mutating after the steps were passed must still fail finalization.
	w.Update(func(d *FormData) { d.Consent = false })

	_, err := w.Finalize()
	require.Error(t, err)
	stepErr, ok := err.(*StepError)
	require.True(t, ok)
	require.Equal(t, 5, stepErr.Step)
}

func TestAvailableExpertiseDeduplicates(t *testing.T) {
	options := AvailableExpertise([]string{"development", "development", "unknown"})
	require.ElementsMatch(t, []string{"web", "mobile", "backend", "devops", "blockchain"}, options)

	require.Empty(t, AvailableExpertise(nil))
}

func TestRequestStepsValidation(t *testing.T) {
	w := New(RequestSteps())
	w.Update(func(d *FormData) {
		d.FullName = "Acme Ltd"
		d.Email = "ops@acme.example"
		d.Phone = "02125550000"
		d.Services = []string{"web_development"}
		d.Description = "Corporate site rebuild."
		d.Budget = "50k-100k"
		d.Consent = true
	})

	for i := 1; i < len(w.Steps()); i++ {
		require.NoError(t, w.Advance())
	}
	_, err := w.Finalize()
	require.NoError(t, err)
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("user@example.com"))
	require.True(t, ValidEmail("  user@example.com  "))
	require.False(t, ValidEmail("user@example"))
	require.False(t, ValidEmail("user example.com"))
	require.False(t, ValidEmail(""))
}

func TestValidPhone(t *testing.T) {
	require.True(t, ValidPhone("+90 (532) 000-11-22"))
	require.True(t, ValidPhone("05320001122"))
	require.False(t, ValidPhone("12345"))
	require.False(t, ValidPhone("phone number"))
}
