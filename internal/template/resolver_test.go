package template

import (
	"errors"
	"testing"
)

func TestResolveSubstitutesJobVariables(t *testing.T) {
	got, err := Resolve("{test_case}_{environment}", map[string]string{
		"test_case":   "A",
		"environment": "dev",
	})
	if err != nil {
		t.Fatalf("Resolve() err=%v", err)
	}
	if got != "A_dev" {
		t.Fatalf("Resolve()=%q, want %q", got, "A_dev")
	}
}

func TestResolveLeavesEnvironmentPlaceholders(t *testing.T) {
	text := "export OUT={output_path}\necho ${{CI_JOB_ID}}\n"
	got, err := Resolve(text, map[string]string{"output_path": "/tmp/out"})
	if err != nil {
		t.Fatalf("Resolve() err=%v", err)
	}
	want := "export OUT=/tmp/out\necho ${{CI_JOB_ID}}\n"
	if got != want {
		t.Fatalf("Resolve()=%q, want %q", got, want)
	}
}

func TestResolveUnboundPlaceholder(t *testing.T) {
	_, err := Resolve("{test_case}_{environment}", map[string]string{"test_case": "A"})
	var unbound *UnboundPlaceholderError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected UnboundPlaceholderError, got %v", err)
	}
	if unbound.Placeholder != "environment" {
		t.Fatalf("Placeholder=%q, want environment", unbound.Placeholder)
	}
}

func TestResolveEnvironmentPlaceholderNeverCrossResolves(t *testing.T) {
	// ${{environment}} belongs to the shell even when the job binds the
	// same name.
	got, err := Resolve("${{environment}}-{environment}", map[string]string{"environment": "dev"})
	if err != nil {
		t.Fatalf("Resolve() err=%v", err)
	}
	if got != "${{environment}}-dev" {
		t.Fatalf("Resolve()=%q, want %q", got, "${{environment}}-dev")
	}
}

func TestResolveLiteralBraces(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "shell array expansion", text: `bash run.sh ${ARGUMENTS[@]}`, want: `bash run.sh ${ARGUMENTS[@]}`},
		{name: "empty braces", text: "a {} b", want: "a {} b"},
		{name: "unclosed brace", text: "a {not closed", want: "a {not closed"},
		{name: "digit first", text: "{1abc}", want: "{1abc}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.text, map[string]string{})
			if err != nil {
				t.Fatalf("Resolve() err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("Resolve()=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveEmptyText(t *testing.T) {
	got, err := Resolve("", map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("Resolve() err=%v", err)
	}
	if got != "" {
		t.Fatalf("Resolve()=%q, want empty", got)
	}
}
