package golang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	src := []byte("package petstore\nfunc   split(s string)[]string{return strings.Split(s, \",\")}\n")

	out, err := Format("split.go", src)
	require.NoError(t, err)
	require.Contains(t, string(out), "import \"strings\"")
	require.Contains(t, string(out), "func split(s string) []string")
}

func TestFormatSyntaxError(t *testing.T) {
	_, err := Format("broken.go", []byte("package petstore\nfunc {"))
	require.ErrorContains(t, err, "broken.go")
}
