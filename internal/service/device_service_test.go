package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-registry/internal/domain"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

func TestRegisterDevice_UpsertsByToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	john := env.createStaff(t, "John", "Smith", "0400000002")

	first, err := env.devices.Register(ctx, jane.ID, domain.PlatformIOS, "tok-1")
	require.NoError(t, err)

	moved, err := env.devices.Register(ctx, john.ID, domain.PlatformAndroid, "tok-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, moved.ID)

	require.Empty(t, env.store.Devices(jane.ID))
	devices := env.store.Devices(john.ID)
	require.Len(t, devices, 1)
	require.Equal(t, domain.PlatformAndroid, devices[0].Platform)
}

func TestRegisterDevice_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)

	_, err := env.devices.Register(ctx, jane.ID, domain.Platform("Windows"), "tok")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.devices.Register(ctx, "7b1e2d0e-4f58-4c1a-9f57-2f6d4dc0a001", domain.PlatformIOS, "tok")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
