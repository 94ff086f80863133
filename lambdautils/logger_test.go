package lambdautils

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		level  string
		format string
		debug  bool
	}{
		{"info", "json", false},
		{"debug", "", true},
		{"warn", "console", false},
	}

	for _, c := range cases {
		logger, err := NewLogger(c.level, c.format)

		require.NoError(t, err)
		assert.Equal(t, c.debug, logger.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestNewLogger_error(t *testing.T) {
	_, err := NewLogger("loud", "json")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	defer clearContext()
	lambdacontext.FunctionName = "employees"
	lambdacontext.FunctionVersion = "7"

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "abc"})

	RequestLogger(ctx, zap.New(core)).Info("request_ok")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "employees", fields["function_name"])
	assert.Equal(t, "7", fields["function_version"])
}

func TestRequestLogger_plain(t *testing.T) {
	defer clearContext()
	lambdacontext.FunctionName = ""
	lambdacontext.FunctionVersion = ""

	base := zap.NewNop()
	assert.Equal(t, base, RequestLogger(context.Background(), base))
	assert.NotNil(t, RequestLogger(context.Background(), nil))
}
