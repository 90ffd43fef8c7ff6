package tester

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/driver"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/spec"
	tspec "github.com/nihei9/regll/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test case at testPath, or every test case under it when it is a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

type Tester struct {
	Spec   *spec.Spec
	Parser *driver.Parser
	Cases  []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) runTest(c *TestCaseWithMetadata) *TestResult {
	name := t.Spec.SymbolTable.Reader().Name

	toks, err := driver.NewTokenStream(t.Spec.Lexical, bytes.NewReader(c.TestCase.Source))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}
	diags := diagnostics.NewCollector()
	tree, err := t.Parser.WithDiagnostics(diags).Process(toks)
	if err != nil {
		if errors.Is(err, driver.ErrParseFailed) {
			var b strings.Builder
			b.WriteString("parse tree was not generated: syntax error occurred")
			for _, d := range diags.Errors() {
				fmt.Fprintf(&b, "\n%v: %v", d.Range().Start, diagnostics.Message(d, name))
			}
			err = errors.New(b.String())
		}
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	diffs := tspec.DiffTree(c.TestCase.Output, genTree(tree, name).Fill())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func genTree(tree driver.ParseTree, name func(symbol.Symbol) string) *tspec.Tree {
	switch tree := tree.(type) {
	case *driver.Leaf:
		return tspec.NewLeaf(name(tree.Sym), tree.Text)
	case *driver.Branch:
		var children []*tspec.Tree
		if len(tree.Children) > 0 {
			children = make([]*tspec.Tree, len(tree.Children))
			for i, c := range tree.Children {
				children[i] = genTree(c, name)
			}
		}
		return tspec.NewTree(name(tree.Sym), children...)
	}
	panic(fmt.Errorf("unknown parse tree: %T", tree))
}
