package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsGoToTheirWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger("planeview", false, &out, &errOut)

	l.Infof("frame %d", 1)
	l.Warnf("slow %s", "upload")
	l.Errorf("failed")

	assert.Contains(t, out.String(), "[planeview] INFO: frame 1")
	assert.Contains(t, errOut.String(), "[planeview] WARN: slow upload")
	assert.Contains(t, errOut.String(), "[planeview] ERROR: failed")
	assert.NotContains(t, out.String(), "WARN")
}

func TestDebugToggle(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger("", false, &out, &out)

	l.Debugf("hidden")
	assert.Empty(t, out.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown")
	assert.Contains(t, out.String(), "DEBUG: shown")
	assert.NotContains(t, out.String(), "[")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Errorf("nothing %d", 1)
}
