package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Plan
		wantErr bool
	}{
		{"Basic", Basic, false},
		{"pro", Pro, false},
		{" PREMIUM ", Premium, false},
		{"enterprise", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPlan)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierRules(t *testing.T) {
	assert.Equal(t, 50, Basic.Quota())
	assert.Equal(t, 200, Pro.Quota())
	assert.Equal(t, 1000, Premium.Quota())

	assert.False(t, Basic.AutoRefill())
	assert.True(t, Pro.AutoRefill())
	assert.True(t, Premium.AutoRefill())

	assert.False(t, Basic.IsPaid())
	assert.Equal(t, 0, Plan("Gold").Quota())
	assert.Len(t, All(), 3)
}

func TestNeedsSwitchConfirmation(t *testing.T) {
	plans := []Plan{"", Basic, Pro, Premium}

	for _, current := range plans {
		for _, target := range []Plan{Basic, Pro, Premium} {
			want := (current == Pro || current == Premium) && current != target
			assert.Equal(t, want, NeedsSwitchConfirmation(current, target),
				"current=%q target=%q", current, target)
		}
	}
}
