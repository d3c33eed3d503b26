package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

func newAssigner(divisions *fakeDivisionRepo, settings map[string]string) *TicketNumberAssigner {
	return NewTicketNumberAssigner(AssignerDependencies{
		DivisionRepo: divisions,
		SequenceRepo: newFakeSequenceRepo(),
		SettingRepo:  newFakeSettingRepo(settings),
		Logger:       zap.NewNop(),
	})
}

func TestAssignFormatsDivisionScopedNumber(t *testing.T) {
	divisions := newFakeDivisionRepo(domain.Division{ID: "div-legal", Name: "Legal", Code: "lgl", IsActive: true})
	assigner := newAssigner(divisions, nil)

	contract := &domain.Contract{DivisionID: "div-legal"}
	assigned, err := assigner.Assign(context.Background(), contract, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, assigned)
	require.NotNil(t, contract.TicketNumber)
	assert.Equal(t, "LGL-0001", *contract.TicketNumber)

	second := &domain.Contract{DivisionID: "div-legal"}
	_, err = assigner.Assign(context.Background(), second, time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "LGL-0002", *second.TicketNumber)
}

func TestAssignCutoffShiftsRegistrationDate(t *testing.T) {
	divisions := newFakeDivisionRepo(domain.Division{ID: "div-1", Code: "FIN", IsActive: true})

	tests := []struct {
		name    string
		cutoff  string
		clock   time.Time
		wantDay time.Time
	}{
		{
			name:    "before cutoff keeps same day",
			cutoff:  "17:00",
			clock:   time.Date(2026, 3, 10, 16, 59, 0, 0, time.UTC),
			wantDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "at cutoff moves to next day",
			cutoff:  "17:00",
			clock:   time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC),
			wantDay: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "after cutoff moves to next day",
			cutoff:  "17:00",
			clock:   time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC),
			wantDay: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "invalid cutoff setting falls back to default",
			cutoff:  "not-a-clock",
			clock:   time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
			wantDay: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "month rollover",
			cutoff:  "17:00",
			clock:   time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC),
			wantDay: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assigner := newAssigner(divisions, map[string]string{
				domain.SettingTicketCutoffTime: tt.cutoff,
			})
			contract := &domain.Contract{DivisionID: "div-1"}
			assigned, err := assigner.Assign(context.Background(), contract, tt.clock)
			require.NoError(t, err)
			require.True(t, assigned)
			assert.Equal(t, tt.wantDay, contract.RegisteredOn)
		})
	}
}

func TestAssignSkipsAlreadyNumberedContract(t *testing.T) {
	divisions := newFakeDivisionRepo(domain.Division{ID: "div-1", Code: "FIN", IsActive: true})
	assigner := newAssigner(divisions, nil)

	existing := "FIN-0042"
	contract := &domain.Contract{DivisionID: "div-1", TicketNumber: &existing}
	assigned, err := assigner.Assign(context.Background(), contract, time.Now())
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Equal(t, "FIN-0042", *contract.TicketNumber)
}

func TestAssignUnknownDivisionIsNoOp(t *testing.T) {
	assigner := newAssigner(newFakeDivisionRepo(), nil)

	contract := &domain.Contract{DivisionID: "missing"}
	assigned, err := assigner.Assign(context.Background(), contract, time.Now())
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Nil(t, contract.TicketNumber)

	blank := &domain.Contract{}
	assigned, err = assigner.Assign(context.Background(), blank, time.Now())
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestAssignConcurrentContractsGetDistinctNumbers(t *testing.T) {
	divisions := newFakeDivisionRepo(domain.Division{ID: "div-1", Code: "OPS", IsActive: true})
	assigner := newAssigner(divisions, nil)

	const workers = 20
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			contract := &domain.Contract{DivisionID: "div-1"}
			if _, err := assigner.Assign(context.Background(), contract, time.Now()); err == nil && contract.TicketNumber != nil {
				numbers <- *contract.TicketNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for number := range numbers {
		assert.False(t, seen[number], "duplicate ticket number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
		wantOK     bool
	}{
		{"17:00", 17, 0, true},
		{"08:30", 8, 30, true},
		{"0:05", 0, 5, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		hour, minute, ok := ParseClock(tt.value)
		assert.Equal(t, tt.wantOK, ok, "value %q", tt.value)
		if tt.wantOK {
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		}
	}
}
