package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskboard-server/internal/mocks"
	"github.com/dtroode/taskboard-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		parsedID     uuid.UUID
		parseErr     error
		wantGRPCCode codes.Code
		wantErr      bool
		expectSetCtx bool
	}{
		{
			name:         "missing authorization header",
			mdAuthHeader: "",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			parseErr:     errors.New("signature is invalid"),
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "nil client id from token",
			mdAuthHeader: "Bearer token",
			parsedID:     uuid.Nil,
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			parsedID:     uuid.New(),
			wantGRPCCode: codes.OK,
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)

			if tt.expectSetCtx {
				cm.On("SetClientIDToContext", mock.Anything, tt.parsedID).Return(context.Background())
			}

			parser := mocks.NewTokenManager(t)
			if tt.mdAuthHeader != "" {
				parser.On("ParseClientToken", mock.AnythingOfType("string")).Return(tt.parsedID, tt.parseErr)
			}
			m := NewAuthenticate(parser, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantGRPCCode, st.Code())
				assert.Nil(t, newCtx)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, newCtx)
			}
		})
	}
}

func TestAuthenticate_StripsBearerPrefix(t *testing.T) {
	cm := mocks.NewContextManager(t)
	parser := mocks.NewTokenManager(t)
	id := uuid.New()

	parser.On("ParseClientToken", "abc.def.ghi").Return(id, nil)
	cm.On("SetClientIDToContext", mock.Anything, id).Return(context.Background())

	m := NewAuthenticate(parser, cm, testutil.MakeNoopLogger())
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer abc.def.ghi"))

	_, err := m.AuthFunc(ctx)
	assert.NoError(t, err)
}
