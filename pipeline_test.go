package jdto_test

import (
	"strings"
	"testing"

	jdto "github.com/jdto/jdto"
)

func TestApplyPipelinePropertySteps(t *testing.T) {
	p := jdto.PropertyMeta{Name: "email", Pipeline: []string{"trim", "lower"}}
	got, err := jdto.ApplyPipeline(jdto.NewContext(), p, "  John@Example.COM  ")
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != "john@example.com" {
		t.Errorf("got %q", got)
	}
}

func TestApplyPipelineGlobalRunsFirst(t *testing.T) {
	c := jdto.NewContext().WithGlobalPipeline("trim")
	p := jdto.PropertyMeta{Name: "code", Pipeline: []string{"upper"}}
	got, err := jdto.ApplyPipeline(c, p, " abc ")
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != "ABC" {
		t.Errorf("got %q", got)
	}
}

func TestApplyPipelineSkipsNonStrings(t *testing.T) {
	p := jdto.PropertyMeta{Name: "age", Pipeline: []string{"trim"}}
	got, err := jdto.ApplyPipeline(jdto.NewContext(), p, 42)
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != 42 {
		t.Errorf("non-string value changed to %v", got)
	}
}

func TestPipelineStripTags(t *testing.T) {
	p := jdto.PropertyMeta{Name: "bio", Pipeline: []string{"strip_tags"}}
	got, err := jdto.ApplyPipeline(jdto.NewContext(), p, "<b>bold</b> and <i>italic</i>")
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != "bold and italic" {
		t.Errorf("got %q", got)
	}
}

func TestPipelineTruncate(t *testing.T) {
	p := jdto.PropertyMeta{Name: "title", Pipeline: []string{"truncate=5"}}
	got, err := jdto.ApplyPipeline(jdto.NewContext(), p, "abcdefgh")
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != "abcde" {
		t.Errorf("got %q", got)
	}
	// shorter input passes through
	got, _ = jdto.ApplyPipeline(jdto.NewContext(), p, "abc")
	if got != "abc" {
		t.Errorf("short input changed to %q", got)
	}
}

func TestPipelineTruncateBadParam(t *testing.T) {
	if _, err := jdto.ResolvePipeline([]string{"truncate=x"}); err == nil {
		t.Error("expected an error for a non-numeric truncate length")
	}
}

func TestPipelineUnknownStep(t *testing.T) {
	_, err := jdto.ResolvePipeline([]string{"definitely_unknown"})
	if err == nil {
		t.Fatal("expected an error")
	}
	je, ok := err.(*jdto.Error)
	if !ok || je.Code != jdto.CodeConfig {
		t.Errorf("error = %v", err)
	}
}

func TestRegisterPipelineStep(t *testing.T) {
	jdto.RegisterPipelineStep("reverse_test", func(string) (jdto.PipelineStep, error) {
		return func(s string) string {
			r := []rune(s)
			for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
				r[i], r[j] = r[j], r[i]
			}
			return string(r)
		}, nil
	})
	p := jdto.PropertyMeta{Name: "x", Pipeline: []string{"reverse_test"}}
	got, err := jdto.ApplyPipeline(jdto.NewContext(), p, "abc")
	if err != nil {
		t.Fatalf("ApplyPipeline: %v", err)
	}
	if got != "cba" {
		t.Errorf("got %q", got)
	}
}

func TestPipelineStepOrderMatters(t *testing.T) {
	p := jdto.PropertyMeta{Name: "x", Pipeline: []string{"truncate=3", "upper"}}
	got, _ := jdto.ApplyPipeline(jdto.NewContext(), p, "abcdef")
	if got != "ABC" {
		t.Errorf("got %q, steps should run in declaration order", got)
	}
	if strings.Contains(got.(string), "def") {
		t.Error("truncate did not run before upper")
	}
}
