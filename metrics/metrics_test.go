package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/a11y-infra/at-acceptor/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "nil"},
		{name: "plain", err: errors.New("session refused"), want: "session_refused"},
		{name: "symbols", err: errors.New("dial tcp 127.0.0.1: refused!"), want: "dial_tcp_refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errToLabel(tt.err))
		})
	}
}

func TestRecordersDoNotPanic(t *testing.T) {
	RecordError("test_error")
	RecordErrorDetails("stage", errors.New("boom"))
	RecordErrorDetails("stage", nil)
	RecordCaseResult("run-1", types.BackendNVDA, true)
	RecordCaseResult("run-1", types.BackendJAWS, false)
	RecordBackendInitError(types.BackendVoiceOver)
	RecordRun("run-1", "pass", 10, 9, 1, 0, 3*time.Second)
}
