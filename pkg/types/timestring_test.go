package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "valid", input: "09:30", want: 9*60 + 30},
		{name: "end of day", input: "24:00", want: 24 * 60},
		{name: "no leading zero", input: "9:30", wantErr: true},
		{name: "hours out of range", input: "25:00", wantErr: true},
		{name: "minutes out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "padded", input: " 13:00 ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := TimeString(tt.input)
			err := ts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				assert.Zero(t, ts.Minutes())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts.Minutes())
		})
	}
}

func TestTimeString_IsZero(t *testing.T) {
	assert.True(t, TimeString("").IsZero())
	assert.False(t, TimeString("09:00").IsZero())
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	got := TimeString("09:30").On(day, loc)

	assert.Equal(t, time.Date(2024, 6, 3, 9, 30, 0, 0, loc), got)
	assert.Equal(t, 6, got.UTC().Hour())
}
