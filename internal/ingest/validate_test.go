package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openimpactlab/impactboard/internal/ingest"
	"github.com/openimpactlab/impactboard/internal/report"
)

func TestParseRow(t *testing.T) {
	type testCase struct {
		name       string
		row        map[string]string
		want       report.Params
		wantErrSub string
	}

	tests := []testCase{
		{
			name: "Valid",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "2024-01",
				"peopleHelped":    "10",
				"eventsConducted": "2",
				"fundsUtilized":   "500.50",
			},
			want: report.Params{
				NGOID:           "ngo-001",
				Month:           "2024-01",
				PeopleHelped:    10,
				EventsConducted: 2,
				FundsUtilized:   500.50,
			},
		},
		{
			name: "NegativeAndZeroValuesPass",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "2024-01",
				"peopleHelped":    "-5",
				"eventsConducted": "0",
				"fundsUtilized":   "-1.25",
			},
			want: report.Params{
				NGOID:           "ngo-001",
				Month:           "2024-01",
				PeopleHelped:    -5,
				EventsConducted: 0,
				FundsUtilized:   -1.25,
			},
		},
		{
			name: "MissingMonth",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"peopleHelped":    "10",
				"eventsConducted": "2",
				"fundsUtilized":   "500",
			},
			wantErrSub: "missing required field(s): month",
		},
		{
			name: "BlankFieldCountsAsMissing",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "   ",
				"peopleHelped":    "10",
				"eventsConducted": "2",
				"fundsUtilized":   "500",
			},
			wantErrSub: "missing",
		},
		{
			name:       "AllMissing",
			row:        map[string]string{},
			wantErrSub: "missing required field(s): ngoId, month, peopleHelped, eventsConducted, fundsUtilized",
		},
		{
			name: "NonNumericPeopleHelped",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "2024-01",
				"peopleHelped":    "ten",
				"eventsConducted": "2",
				"fundsUtilized":   "500",
			},
			wantErrSub: "peopleHelped is not a number",
		},
		{
			name: "NonNumericFunds",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "2024-01",
				"peopleHelped":    "10",
				"eventsConducted": "2",
				"fundsUtilized":   "lots",
			},
			wantErrSub: "fundsUtilized is not a number",
		},
		{
			name: "ExtraColumnsIgnored",
			row: map[string]string{
				"ngoId":           "ngo-001",
				"month":           "2024-01",
				"peopleHelped":    "10",
				"eventsConducted": "2",
				"fundsUtilized":   "500",
				"notes":           "whatever",
			},
			want: report.Params{
				NGOID:           "ngo-001",
				Month:           "2024-01",
				PeopleHelped:    10,
				EventsConducted: 2,
				FundsUtilized:   500,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ingest.ParseRow(tt.row)

			if tt.wantErrSub != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrSub)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
