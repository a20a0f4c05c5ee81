package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support/internal/form"
)

func TestReduce_UpdateIsIdempotent(t *testing.T) {
	patch := UpdatePersonalInfo{Patch: form.PersonalInfo{Name: form.Ptr("A")}}

	once := Reduce(Initial(), patch)
	twice := Reduce(once, patch)
	assert.Equal(t, once, twice)
}

func TestReduce_DoesNotAliasPatch(t *testing.T) {
	name := "A"
	s := Reduce(Initial(), UpdatePersonalInfo{Patch: form.PersonalInfo{Name: &name}})
	name = "B"
	assert.Equal(t, "A", *s.PersonalInfo.Name)
}

func TestReduce_Reset(t *testing.T) {
	s := Initial()
	s = Reduce(s, SetCurrentStep{Step: form.StepSituation})
	s = Reduce(s, SetReferenceNumber{Reference: "SSP-1"})
	s = Reduce(s, MarkSaved{At: time.Now()})

	assert.Equal(t, Initial(), Reduce(s, Reset{}))
}

func TestStore_UpdateStep(t *testing.T) {
	st := NewStore(Initial())

	_, err := st.UpdateStep(form.StepFamily, form.FamilyFinancial{Dependents: form.Ptr(form.Numeric("2"))})
	require.NoError(t, err)
	s, err := st.UpdateStep(form.StepFamily, form.FamilyFinancial{MaritalStatus: form.Ptr("married")})
	require.NoError(t, err)

	assert.Equal(t, form.Numeric("2"), *s.FamilyFinancial.Dependents)
	assert.Equal(t, "married", *s.FamilyFinancial.MaritalStatus)

	_, err = st.UpdateStep(form.StepPersonal, form.FamilyFinancial{})
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestStore_AdvanceToIsUnconditional(t *testing.T) {
	st := NewStore(Initial())

	s, err := st.AdvanceTo(form.StepSituation)
	require.NoError(t, err)
	assert.Equal(t, form.StepSituation, s.CurrentStep)

	_, err = st.AdvanceTo("review")
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestStore_ReferenceSetOncePerCycle(t *testing.T) {
	st := NewStore(Initial())

	_, err := st.SetReferenceNumber("SSP-1")
	require.NoError(t, err)
	_, err = st.SetReferenceNumber("SSP-1")
	require.NoError(t, err)
	_, err = st.SetReferenceNumber("SSP-2")
	assert.ErrorIs(t, err, ErrReferenceAlreadySet)

	st.Reset()
	_, err = st.SetReferenceNumber("SSP-2")
	assert.NoError(t, err)
}

func TestStore_TryBeginSubmit(t *testing.T) {
	st := NewStore(Initial())

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if st.TryBeginSubmit() {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.True(t, st.Snapshot().IsSubmitting)
}
