package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced code blocks executed by TestCodeBlocks.
//
// A "bash setup" block starts a new scenario in an empty directory, "bash run"
// records its output for the next "console check" block, and a "bash check"
// block must succeed.
const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	bashCheck    = "bash check"
	consoleCheck = "console check"
)

var listed = regexp.MustCompile(`(?m)^\*\s+([^:]+):`)

func TestTopics(t *testing.T) {
	readme, err := GetTopic(index)
	if err != nil {
		t.Fatalf("GetTopic(index) error = %v", err)
	}
	var inIndex []string
	for _, m := range listed.FindAllStringSubmatch(readme, -1) {
		inIndex = append(inIndex, strings.TrimSpace(m[1]))
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	slices.Sort(inIndex)
	if !slices.Equal(inIndex, all) {
		t.Errorf("topics listed in the index = %v, want %v", inIndex, all)
	}

	content, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, topic := range all {
		c, _ := GetTopic(topic)
		if !strings.Contains(content, c) {
			t.Errorf("GetTopic(*) does not contain %q", topic)
		}
	}

	if _, err := GetTopics("ledger", "missing"); err == nil {
		t.Error("GetTopics() succeeded with an unknown topic")
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	var perf string
	for _, file := range files {
		blocks := codeBlocks(t, file)
		if len(blocks) == 0 {
			continue
		}
		if perf == "" {
			perf = buildPerf(t)
		}
		t.Run(filepath.Base(file), func(t *testing.T) {
			r := scenario{env: scenarioEnv(filepath.Dir(perf)), dir: t.TempDir()}
			for _, b := range blocks {
				r.run(t, b)
			}
		})
	}
}

// block is a fenced code block of a markdown file.
type block struct {
	kind    string
	content string
	pos     string // file:line
}

// codeBlocks returns the executable blocks of a markdown file, in order.
func codeBlocks(t *testing.T, file string) []block {
	t.Helper()
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("cannot read %s: %v", file, err)
	}
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blocks []block
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(src))
		switch kind {
		case bashSetup, bashRun, bashCheck, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(src))
		}
		line := bytes.Count(src[:fcb.Info.Segment.Start], []byte("\n")) + 1
		blocks = append(blocks, block{kind: kind, content: b.String(), pos: fmt.Sprintf("%s:%d", file, line)})
		return ast.WalkContinue, nil
	})
	return blocks
}

// buildPerf builds the perf executable and returns its path.
func buildPerf(t *testing.T) string {
	t.Helper()
	output := filepath.Join(t.TempDir(), "perf")
	build := exec.Command("go", "build", "-o", output, "../perf/")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("cannot build perf: %v", err)
	}
	return output
}

// scenarioEnv is the environment of the scenarios: perf first in the PATH,
// and none of the PERF_* defaults of the caller.
func scenarioEnv(bin string) []string {
	env := []string{fmt.Sprintf("PATH=%s%c%s", bin, os.PathListSeparator, os.Getenv("PATH"))}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "PERF_") && !strings.HasPrefix(kv, "PATH=") {
			env = append(env, kv)
		}
	}
	return env
}

type scenario struct {
	env    []string
	dir    string
	output string // output of the last run block
}

func (s *scenario) run(t *testing.T, b block) {
	t.Helper()
	if b.kind == consoleCheck {
		got := strings.TrimSpace(s.output)
		if want := strings.TrimSpace(b.content); got != want {
			t.Errorf("%s: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q", b.pos, got, want, got, want)
		}
		return
	}
	if b.kind == bashSetup {
		s.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+b.content)
	cmd.Dir = s.dir
	cmd.Env = s.env
	output, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		s.output = string(output)
	}
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%s: check failed: %v with output:\n%s", b.pos, err, output)
		return
	}
	t.Fatalf("%s: %s failed: %v with output:\n%s", b.pos, b.kind, err, output)
}
