package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiss/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "json",
		Writer:  buf,
		TraceID: "trace-1",
	}

	err := formatter.Success(map[string]int{"players": 4})
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok","data":{"players":4},"trace_id":"trace-1"}`+"\n", buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("INVALID_STATE", "cannot pair 3 players", map[string]string{"players": "3"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	assert.Equal(t, "cannot pair 3 players", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("Matches deleted."))
	assert.Equal(t, "Matches deleted.\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	require.NoError(t, formatter.Error("NOT_FOUND", "report match", map[string]string{"id": "9"}))
	assert.Equal(t, "Error [NOT_FOUND]: report match\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error("NOT_FOUND", "report match", map[string]string{"id": "9"}))
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{
			name:     "rule violation",
			err:      engine.NewOddRosterError(3),
			wantCode: "INVALID_STATE",
			wantExit: ExitFailure,
		},
		{
			name:     "store failure",
			err:      &engine.Error{Code: engine.CodeStore, Message: "read standings"},
			wantCode: "STORE",
			wantExit: ExitCommandError,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: "ERROR",
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "json", Writer: buf}

			err := f.Fail("op", tt.err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.True(t, errors.Is(err, tt.err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("running %s", "two_rounds")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Equal(t, "running two_rounds\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))

	assert.Equal(t, ExitCommandError, ExitCodeFor(engine.CodeConnection))
	assert.Equal(t, ExitCommandError, ExitCodeFor(engine.CodeStore))
	assert.Equal(t, ExitFailure, ExitCodeFor(engine.CodeNotFound))
	assert.Equal(t, ExitFailure, ExitCodeFor(engine.CodeInvalidState))
	assert.Equal(t, ExitFailure, ExitCodeFor(engine.CodeIntegrity))
	assert.Equal(t, ExitFailure, ExitCodeFor(engine.CodeInvalidArgument))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "no scenarios", NewExitError(ExitFailure, "no scenarios").Error())
	assert.Equal(t, "open: disk gone", WrapExitError(ExitCommandError, "open", errors.New("disk gone")).Error())
}
