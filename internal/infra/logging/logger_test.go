package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	"github.com/mkrupp/userapi/internal/infra/logging"
)

//nolint:paralleltest
func TestGetLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "debug",
		JSON:         true,
		OutputHandle: &buf,
	}, "userapi.test")

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithSessionClaim(ctx, domain.SessionClaim{AccountID: 7})

	buf.Reset()
	logging.GetLogger("svc.test").InfoContext(ctx, "hello", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "userapi.test", record["app"])
	assert.Equal(t, "svc.test", record["logger"])
	assert.Equal(t, "v", record["k"])
	assert.Equal(t, map[string]any{"id": "trace-1"}, record["trace"])
	assert.Equal(t, map[string]any{"account_id": float64(7)}, record["session"])
}

//nolint:paralleltest
func TestGetLogger_ConsoleFilter(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "info",
		Filter:       "repo:error,svc.accountsvc:debug",
		OutputHandle: &buf,
	}, "userapi.test")

	buf.Reset()

	logging.GetLogger("repo.account").WarnContext(context.Background(), "dropped by filter")
	logging.GetLogger("svc.accountsvc.http_transport").DebugContext(context.Background(), "kept by filter")
	logging.GetLogger("infra.transport.http").DebugContext(context.Background(), "dropped by level")
	logging.GetLogger("infra.transport.http").InfoContext(context.Background(), "kept by level")

	out := buf.String()

	assert.NotContains(t, out, "dropped by filter")
	assert.Contains(t, out, "kept by filter")
	assert.NotContains(t, out, "dropped by level")
	assert.Contains(t, out, "kept by level")
	assert.Equal(t, 2, strings.Count(out, "\n-> "))
}

//nolint:paralleltest
func TestGetLogger_Discard(t *testing.T) {
	logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "userapi.test")

	log := logging.GetLogger("svc.test")

	assert.False(t, log.Enabled(context.Background(), logging.LevelError))
}
