package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluzelle/blzgo/params"
)

func TestPrintVersion(t *testing.T) {
	app := NewApp("blztest", "0123456789abcdef", "20201130", "test app")
	assert.Equal(t, params.VersionWithCommit("0123456789abcdef", "20201130"), app.Version)

	var buf bytes.Buffer
	printVersion(&buf)
	out := buf.String()
	assert.Contains(t, out, "Blztest")
	assert.Contains(t, out, "Version: "+params.VersionWithMeta)
	assert.Contains(t, out, "Git Commit: 0123456789abcdef")
	assert.Contains(t, out, "Key Path: 44'/118'/0'/0/0")
}
