package format

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

var testcasesDir string
var testFilter string

func init() {
	flag.StringVar(&testcasesDir, "testcases", "testdata", "directory containing .xml test files")
	flag.StringVar(&testFilter, "filter", "", "filter test files by substring match on filename")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// TestRoundTrip_Testcases runs round-trip tests on all .xml files in the testcases directory.
// Each file becomes a subtest that can be targeted with: go test -run TestRoundTrip_Testcases/filename
// Use -filter to filter files by substring: go test ./format -filter=crlf
func TestRoundTrip_Testcases(t *testing.T) {
	var files []string
	err := filepath.WalkDir(testcasesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".xml") {
			if testFilter != "" && !strings.Contains(path, testFilter) {
				return nil
			}
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk testcases directory: %v", err)
	}
	if len(files) == 0 {
		t.Skipf("no .xml files found in %s", testcasesDir)
	}

	for _, file := range files {
		relPath, err := filepath.Rel(testcasesDir, file)
		if err != nil {
			relPath = filepath.Base(file)
		}
		testName := strings.ReplaceAll(relPath, string(filepath.Separator), "_")
		testName = strings.TrimSuffix(testName, ".xml")

		t.Run(testName, func(t *testing.T) {
			runRoundTripTest(t, file)
		})
	}
}

func runRoundTripTest(t *testing.T, filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	root := parser.Parse(string(source))
	if got := root.ToFullString(); got != string(source) {
		t.Fatalf("ToFullString differs from the source")
	}

	want := FromNode(root)

	var mp bytes.Buffer
	if err := NewMsgpackEncoder(&mp).Encode(root); err != nil {
		t.Fatal(err)
	}
	fromMsgpack, err := DecodeMsgpack(&mp)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, fromMsgpack); diff != "" {
		t.Errorf("msgpack round trip (-want +got):\n%s", diff)
	}

	var js bytes.Buffer
	if err := NewASTJSONEncoder(&js).Encode(root); err != nil {
		t.Fatal(err)
	}
	var fromJSON SyntaxData
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, &fromJSON); diff != "" {
		t.Errorf("json round trip (-want +got):\n%s", diff)
	}

	// The projection of the projection is itself.
	valid := parser.RemoveInvalid(root)
	again := parser.RemoveInvalid(valid)
	if diff := cmp.Diff(countNodeKinds(valid), countNodeKinds(again)); diff != "" {
		t.Errorf("node count mismatch after second projection (-first +second):\n%s", diff)
	}
	if valid.ToFullString() != again.ToFullString() {
		t.Errorf("second projection changed the text")
	}
}

func countNodeKinds(node *parser.Node) map[string]int {
	counts := make(map[string]int)
	node.Walk(func(n *parser.Node) bool {
		counts[typeName(n)]++
		return true
	})
	return counts
}
