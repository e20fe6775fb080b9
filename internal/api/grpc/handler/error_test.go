package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskboard-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "status passthrough",
			in:       status.Error(codes.Unavailable, "later"),
			wantCode: codes.Unavailable,
			wantMsg:  "later",
		},
		{
			name:     "duplicate email -> AlreadyExists",
			in:       model.ErrDuplicateEmail,
			wantCode: codes.AlreadyExists,
			wantMsg:  model.ErrDuplicateEmail.Error(),
		},
		{
			name:     "invalid credentials -> Unauthenticated",
			in:       model.ErrInvalidCredentials,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrInvalidCredentials.Error(),
		},
		{
			name:     "not authenticated -> Unauthenticated",
			in:       model.ErrNotAuthenticated,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrNotAuthenticated.Error(),
		},
		{
			name:     "wrapped invalid argument keeps detail",
			in:       fmt.Errorf("%w: title is required", model.ErrInvalidArgument),
			wantCode: codes.InvalidArgument,
			wantMsg:  "invalid argument: title is required",
		},
		{
			name:     "load failure -> DataLoss",
			in:       fmt.Errorf("%w: tasks of u1", model.ErrLoadFailure),
			wantCode: codes.DataLoss,
			wantMsg:  model.ErrLoadFailure.Error(),
		},
		{
			name:     "not found -> NotFound",
			in:       model.ErrNotFound,
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
