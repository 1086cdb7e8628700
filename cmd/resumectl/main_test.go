package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const resumeText = "张三\nzhangsan@example.com\n技能\nPython, Redis\n"

func run(t *testing.T, stdin string, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("resumectl %v: %v", args, err)
	}
	return out.Bytes()
}

func TestSegmentFromStdin(t *testing.T) {
	var sections []sectionOut
	if err := json.Unmarshal(run(t, resumeText, "segment"), &sections); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sections) != 2 || sections[0].Type != "profile" || sections[1].Type != "skills" || sections[1].Code != 5 {
		t.Fatalf("unexpected sections: %+v", sections)
	}
}

func TestScoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte(resumeText), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var result struct {
		ATS   int      `json:"atsScore"`
		Match int      `json:"matchScore"`
		Issue []string `json:"issues"`
	}
	if err := json.Unmarshal(run(t, "", "score", "--role", "python", path), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// python + redis hit: 40 + 2*8
	if result.Match != 56 {
		t.Fatalf("expected match 56, got %d", result.Match)
	}
	if result.ATS != 55 {
		t.Fatalf("expected ats 55, got %d", result.ATS)
	}
}

func TestJDRequiresFile(t *testing.T) {
	rootCmd.SetIn(strings.NewReader(resumeText))
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"jd", "--jd", ""})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error without --jd")
	}
}

func TestRewriteWithJD(t *testing.T) {
	jdPath := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(jdPath, []byte("Python Kubernetes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out []rewriteOut
	if err := json.Unmarshal(run(t, resumeText, "rewrite", "--mode", "aggressive", "--jd", jdPath), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out))
	}
	if !strings.HasPrefix(out[1].Optimized, "高强度改写：Python, Redis") {
		t.Fatalf("unexpected rewrite: %q", out[1].Optimized)
	}
	if !strings.HasSuffix(out[1].Optimized, "关键词补齐建议：可结合实际补充 Kubernetes。") {
		t.Fatalf("expected keyword suggestion, got %q", out[1].Optimized)
	}
}
