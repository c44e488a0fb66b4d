package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/workspace"
)

// run executes the CLI with a config file written next to the inputs so the
// working directory's surroundings do not matter.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	configPath := filepath.Join(dir, "xmlsyn.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		require.NoError(t, os.WriteFile(configPath, []byte("jobs = 2\n"), 0o644))
	}

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath, "--color", "off"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeXML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeXML(t, dir, "a.xml", `<a x="1"/>`)

	out, _, err := run(t, dir, "parse", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Document\n  Element a\n"), out)

	out, _, err = run(t, dir, "parse", "-f", "json", path)
	require.NoError(t, err)
	require.Contains(t, out, `"type": "Document"`)

	_, _, err = run(t, dir, "parse", "-f", "yaml", path)
	require.Error(t, err)
}

func TestTokensCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeXML(t, dir, "a.xml", "<a>\n</a>")

	out, _, err := run(t, dir, "tokens", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Equal(t, []string{
		"0-1\tLessThan\t\"<\"",
		"1-2\tName\t\"a\"",
		"2-3\tGreaterThan\t\">\"\ttrailing=[EndOfLine:\"\\n\"]",
		"4-6\tLessThanSlash\t\"</\"",
		"6-7\tName\t\"a\"",
		"7-8\tGreaterThan\t\">\"",
		"8-8\tEOF\t\"\"",
	}, lines)
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "good.xml", "<a/>\n")
	bad := writeXML(t, dir, "sub/bad.xml", "<a>\n\t<b></a>\n")

	out, stderr, err := run(t, dir, "check", dir)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, bad+":2:2: error MissingEndTag: Element is not closed.\n  \t<b></a>\n  \t^~~\n", out)
	require.Equal(t, "1 of 2 files have errors\n", stderr)

	out, _, err = run(t, dir, "check", filepath.Join(dir, "good.xml"))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestValidCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeXML(t, dir, "a.xml", "<a>\n  <b>\n</a>")

	out, _, err := run(t, dir, "valid", path)
	require.NoError(t, err)
	require.Equal(t, "<a>\n</a>", out)
}

func TestFindCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeXML(t, dir, "a.xml", "<a>\n  <b/>\n</a>")

	out, _, err := run(t, dir, "find", path, "2:4")
	require.NoError(t, err)
	require.Equal(t, "*Name* b [7..8)\nLine: 2 Col: 4 Length: 1\n\nb\nName\nParent:StartTag\nParent Element:b\n", out)

	_, _, err = run(t, dir, "find", path, "nine")
	require.Error(t, err)
	_, _, err = run(t, dir, "find", path, "9:1")
	require.Error(t, err)
}

func TestGrammarCmd(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "grammar")
	require.NoError(t, err)
	require.Contains(t, out, "Document")

	out, _, err = run(t, dir, "grammar", "--check")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "ok: "), out)

	good := writeXML(t, dir, "good.xml", `<a b="c"/>`)
	out, _, err = run(t, dir, "grammar", "match", "Document", good)
	require.NoError(t, err)
	require.Equal(t, "Document: match\n", out)

	bad := writeXML(t, dir, "bad.xml", `<a b=/>`)
	out, _, err = run(t, dir, "grammar", "match", "Document", bad)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, "Document: no match\n", out)
}

func TestInvalidColor(t *testing.T) {
	dir := t.TempDir()
	path := writeXML(t, dir, "a.xml", "<a/>")
	_, _, err := run(t, dir, "--color", "sometimes", "parse", path)
	require.Error(t, err)
}

func TestParsePosition(t *testing.T) {
	line, column, err := parsePosition("12:3")
	require.NoError(t, err)
	require.Equal(t, 12, line)
	require.Equal(t, 3, column)

	for _, s := range []string{"", "12", "a:1", "1:b", "0:1", "1:0"} {
		_, _, err := parsePosition(s)
		require.Error(t, err, s)
	}
}

func TestWatchersSkipCheckedFiles(t *testing.T) {
	dir := t.TempDir()
	bad := writeXML(t, dir, "bad.xml", "<a><b></a>")

	cfg := workspace.DefaultConfig()
	cfg.PollInterval.Duration = 5 * time.Millisecond
	ws := workspace.New(cfg)

	var out bytes.Buffer
	printer := format.NewDiagnosticPrinter(&out, format.PrettyOpts{})
	watchers, err := newWatchers(ws, printer, []string{dir, bad})
	require.NoError(t, err)
	require.Len(t, watchers, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, runWatchers(ctx, watchers))
	require.Empty(t, out.String())

	_, err = newWatchers(ws, printer, []string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}
