package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openimpactlab/impactboard/internal/ingest"
)

func TestService_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := ingest.NewMockLedger(ctrl)
	ledger.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		Return(nil)

	svc := ingest.NewService(ledger)
	id, err := svc.Accept(context.Background())

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestService_Accept_LedgerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := ingest.NewMockLedger(ctrl)
	ledger.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		Return(errors.New("insert failed"))

	svc := ingest.NewService(ledger)
	_, err := svc.Accept(context.Background())

	assert.Error(t, err)
}

func TestService_Status(t *testing.T) {
	jobID := uuid.New()

	type testCase struct {
		name      string
		rawID     string
		setupMock func(m *ingest.MockLedger)
		wantErr   error
		wantJob   bool
	}

	tests := []testCase{
		{
			name:  "Found",
			rawID: jobID.String(),
			setupMock: func(m *ingest.MockLedger) {
				m.EXPECT().
					GetJob(gomock.Any(), jobID).
					Return(&ingest.Job{ID: jobID, Status: ingest.StatusCompleted}, nil)
			},
			wantJob: true,
		},
		{
			name:  "MarkupStripped",
			rawID: "<" + jobID.String() + ">",
			setupMock: func(m *ingest.MockLedger) {
				m.EXPECT().
					GetJob(gomock.Any(), jobID).
					Return(&ingest.Job{ID: jobID, Status: ingest.StatusPending}, nil)
			},
			wantJob: true,
		},
		{
			name:  "NotFound",
			rawID: jobID.String(),
			setupMock: func(m *ingest.MockLedger) {
				m.EXPECT().
					GetJob(gomock.Any(), jobID).
					Return(nil, ingest.ErrJobNotFound)
			},
			wantErr: ingest.ErrJobNotFound,
		},
		{
			// A malformed id never reaches the store.
			name:  "MalformedID",
			rawID: "not-a-uuid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledger := ingest.NewMockLedger(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(ledger)
			}

			svc := ingest.NewService(ledger)
			job, err := svc.Status(context.Background(), tt.rawID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			if !tt.wantJob {
				assert.Error(t, err)
				assert.Nil(t, job)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, jobID, job.ID)
		})
	}
}

func TestParseJobID(t *testing.T) {
	id := uuid.New()

	got, err := ingest.ParseJobID("  <" + id.String() + ">  ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ingest.ParseJobID("'; DROP TABLE jobs; --")
	assert.Error(t, err)
}
