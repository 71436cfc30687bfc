package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lost-woods/kingdom/src/telemetry"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
