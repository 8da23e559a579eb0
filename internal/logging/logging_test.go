package logging

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		logger  Logger
		wantOut string
		wantErr string
	}{
		{
			name:    "quiet",
			logger:  Logger{},
			wantOut: "",
			wantErr: "[warn] w 3\n[error] e 4\n",
		},
		{
			name:    "verbose",
			logger:  Logger{Verbose: true},
			wantOut: "[info] i 1\n",
			wantErr: "[warn] w 3\n[error] e 4\n",
		},
		{
			name:    "debug",
			logger:  Logger{Debug: true},
			wantOut: "[info] i 1\n[debug] d 2\n",
			wantErr: "[warn] w 3\n[error] e 4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := tt.logger
			l.Out = &out
			l.Err = &errOut

			l.Infof("i %d", 1)
			l.Debugf("d %d", 2)
			l.Warnf("w %d", 3)
			l.Errorf("e %d", 4)

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}
