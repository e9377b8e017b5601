package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyProgressBounds(t *testing.T) {
	enrollment := Enrollment{}

	require.ErrorIs(t, enrollment.ApplyProgress(-1), ErrProgressOutOfRange)
	require.ErrorIs(t, enrollment.ApplyProgress(101), ErrProgressOutOfRange)
	require.Zero(t, enrollment.Progress)
	require.False(t, enrollment.IsCompleted)

	require.NoError(t, enrollment.ApplyProgress(40))
	require.Equal(t, 40, enrollment.Progress)
	require.False(t, enrollment.IsCompleted)
}

func TestApplyProgressCompletionIsOneWay(t *testing.T) {
	enrollment := Enrollment{}

	require.NoError(t, enrollment.ApplyProgress(MaxProgress))
	require.True(t, enrollment.IsCompleted)

	// Dropping back below 100 keeps the completion flag.
	require.NoError(t, enrollment.ApplyProgress(30))
	require.Equal(t, 30, enrollment.Progress)
	require.True(t, enrollment.IsCompleted)
}

func TestMarkCertificateReady(t *testing.T) {
	enrollment := Enrollment{}

	require.ErrorIs(t, enrollment.MarkCertificateReady(), ErrCertificateNeedsCompleted)
	require.False(t, enrollment.IsCertificateReady)

	require.NoError(t, enrollment.ApplyProgress(MaxProgress))
	require.NoError(t, enrollment.MarkCertificateReady())
	require.True(t, enrollment.IsCertificateReady)
}
