package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	if err := loadSettings(); err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	var buf bytes.Buffer
	output = &buf
	return &buf
}

func TestWriteName(t *testing.T) {
	setup(t)

	cases := []struct {
		format string
		want   string
	}{
		{format: "text", want: "std::vector<int>\n"},
		{format: "events", want: "begin\nbegin_type\nbegin_scope\nadd_identifier(\"std\")\nend_scope\n" +
			"add_identifier(\"vector\")\nbegin_template_args\nbegin_type\nadd_identifier(\"int\")\nend_type\n" +
			"end_template_args\nend_type\nend\n"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		if err := writeName(&buf, "std::vector<int, std::allocator<int> >", tc.format, true); err != nil {
			t.Fatalf("writeName(%s) failed: %v", tc.format, err)
		}
		if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
			t.Fatalf("writeName(%s) mismatch (-want +got):\n%s", tc.format, diff)
		}
	}

	var buf bytes.Buffer
	if err := writeName(&buf, "int", "xml", true); err == nil {
		t.Fatalf("writeName accepted an unknown format")
	}
	if err := writeName(&buf, "const const int", "text", true); err == nil {
		t.Fatalf("writeName accepted a malformed name")
	}
}

func TestBatch(t *testing.T) {
	buf := setup(t)

	input := strings.Join([]string{
		"std::vector<int, std::allocator<int> >",
		"",
		"class std::basic_string<char,struct std::char_traits<char>,class std::allocator<char> >",
		"void __cdecl foo(int)",
		"const const int",
	}, "\n")
	path := filepath.Join(t.TempDir(), "names.txt")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	batchMatch, batchLimit, batchStrict = "", 0, false
	if err := runBatch(batchCmd, []string{path}); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}
	want := "std::vector<int>\nstd::basic_string<char>\nvoid foo(int)\n"
	if got := buf.String(); got != want {
		t.Fatalf("runBatch wrote %q, want %q", got, want)
	}

	buf.Reset()
	batchMatch, batchLimit = "vector", 1
	defer func() { batchMatch, batchLimit = "", 0 }()
	if err := runBatch(batchCmd, []string{path}); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}
	if got, want := buf.String(), "std::vector<int>\n"; got != want {
		t.Fatalf("runBatch --match wrote %q, want %q", got, want)
	}
}

func TestConfig(t *testing.T) {
	buf := setup(t)
	if err := runConfig(configCmd, nil); err != nil {
		t.Fatalf("runConfig failed: %v", err)
	}
	if !strings.Contains(buf.String(), "default_args:") {
		t.Fatalf("config output lacks default_args:\n%s", buf.String())
	}
}
