package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/regll/driver"
	"github.com/nihei9/regll/spec"
	tspec "github.com/nihei9/regll/spec/test"
)

func TestTester_Run(t *testing.T) {
	grammarSrc1 := `
S   = foo bar baz .
foo = "foo" .
bar = "bar" .
baz = "baz" .
ws  = "[\t ]+" .
`

	grammarSrc2 := `
S    = Foos .
Foos = foo { foo } .
foo  = "foo" .
ws   = "[\t ]+" .
`

	tests := []struct {
		grammarSrc string
		testSrc    string
		error      bool
	}{
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S
    (foo 'foo') (bar 'bar') (baz 'baz'))
`,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S
    (foo) (_) (baz))
`,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo ? baz
---
(S
    (foo 'foo') (bar) (baz 'baz'))
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo baz
---
(S
    (foo 'foo') (baz 'baz'))
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S)
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S
    (foo) (bar))
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S
    (foo) (bar) (xxx))
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc1,
			testSrc: `
Test
---
foo bar baz
---
(S
    (foo 'foo') (bar 'baz') (baz 'baz'))
`,
			error: true,
		},
		{
			grammarSrc: grammarSrc2,
			testSrc: `
Test
---
foo foo foo
---
(S
    (Foos
        (foo 'foo') (foo 'foo') (foo 'foo')))
`,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			s, err := spec.Load(strings.NewReader(tt.grammarSrc), spec.SkipTerminals("ws"))
			if err != nil {
				t.Fatal(err)
			}
			p, err := driver.NewParser(s.Grammar, driver.SymbolNames(s.SymbolTable.Reader()))
			if err != nil {
				t.Fatal(err)
			}
			c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Spec:   s,
				Parser: p,
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	valid := "test\n---\nfoo\n---\n(S (foo))\n"
	files := map[string]string{
		filepath.Join(dir, "a.txt"): valid,
		filepath.Join(sub, "b.txt"): valid,
		filepath.Join(sub, "c.txt"): "test\n---\nfoo\n",
	}
	for path, src := range files {
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cs := ListTestCases(dir)
	if len(cs) != 3 {
		t.Fatalf("unexpected test case count; want: 3, got: %v", len(cs))
	}
	errCount := 0
	for _, c := range cs {
		if c.Error != nil {
			errCount++
			if c.FilePath != filepath.Join(sub, "c.txt") {
				t.Fatalf("unexpected error; path: %v, error: %v", c.FilePath, c.Error)
			}
		}
	}
	if errCount != 1 {
		t.Fatalf("unexpected error count; want: 1, got: %v", errCount)
	}

	cs = ListTestCases(filepath.Join(dir, "missing"))
	if len(cs) != 1 || cs[0].Error == nil {
		t.Fatalf("a missing path must be reported")
	}
}
