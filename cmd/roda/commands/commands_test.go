package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/benvon/roda-da-vida/internal/services/ai"
)

type cli struct {
	t   *testing.T
	dsn string
	gen ai.TextGenerator
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{
		t:   t,
		dsn: filepath.Join(t.TempDir(), "roda.db"),
		gen: &ai.StaticProvider{
			Text:     "**Foco** na saúde",
			JSONText: `[{"area":"Saúde & Energia","goal":"Dormir 7h por noite durante 30 dias."}]`,
		},
	}
}

// run executes one invocation against the shared database
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCmd(WithGenerator(c.gen))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--driver", "sqlite", "--dsn", c.dsn}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("roda %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestWheelCommands(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	out := c.mustRun("wheel", "show")
	if !strings.Contains(out, "Mode: standard") || !strings.Contains(out, "Saúde & Energia") {
		t.Errorf("Unexpected wheel output:\n%s", out)
	}

	c.mustRun("wheel", "score", "Saúde & Energia", "9")
	c.mustRun("wheel", "notes", "dormindo", "pouco")

	out = c.mustRun("wheel", "show")
	if !strings.Contains(out, " 9  excellent") {
		t.Errorf("Expected the score to persist across invocations:\n%s", out)
	}
	if !strings.Contains(out, "Notes: dormindo pouco") {
		t.Errorf("Expected notes:\n%s", out)
	}

	if _, err := c.run("wheel", "score", "Nada", "3"); err == nil {
		t.Error("Expected an error for an unknown category")
	}
	if _, err := c.run("wheel", "mode", "circular"); err == nil {
		t.Error("Expected an error for an unknown mode")
	}
}

func TestSetupCommand(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	out := c.mustRun("setup", "--names", "Corpo,Mente,Casa,Grana")
	for _, want := range []string{"Mode: custom", "Corpo", "Grana", "Average: 5.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	if _, err := c.run("setup", "--count", "3"); err == nil {
		t.Error("Expected an error for a wheel smaller than 4 areas")
	}
	if _, err := c.run("setup", "--count", "5", "--names", "a,b"); err == nil {
		t.Error("Expected an error when names and count disagree")
	}

	// A failed setup leaves the previous custom wheel in place
	out = c.mustRun("wheel", "show")
	if !strings.Contains(out, "Corpo") {
		t.Errorf("Expected the custom wheel to survive:\n%s", out)
	}
}

func TestAnalyzeAndHistory(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	if _, err := c.run("analyze"); err == nil {
		t.Fatal("Expected analyze to require an email")
	}
	if _, err := c.run("email", "not-an-email"); err == nil {
		t.Error("Expected an invalid email to be rejected")
	}
	c.mustRun("email", "ana@example.com")

	if _, err := c.run("analyze", "--goals"); err == nil {
		t.Error("Expected goals to require premium")
	}

	out := c.mustRun("analyze")
	if !strings.Contains(out, "Foco na saúde") {
		t.Errorf("Expected the cleaned narrative:\n%s", out)
	}

	out = c.mustRun("history", "list")
	fields := strings.Fields(out)
	if len(fields) == 0 {
		t.Fatalf("Expected a record in history:\n%s", out)
	}
	id := fields[0]

	out = c.mustRun("history", "show", id)
	if !strings.Contains(out, "Média: 5.0") {
		t.Errorf("Unexpected record output:\n%s", out)
	}

	if _, err := c.run("export", id); err == nil {
		t.Error("Expected export to require premium")
	}

	c.mustRun("premium", "grant")
	out = c.mustRun("premium", "status")
	if !strings.Contains(out, "Premium: true") || !strings.Contains(out, "ana@example.com") {
		t.Errorf("Unexpected status:\n%s", out)
	}

	out = c.mustRun("analyze", "--goals")
	if !strings.Contains(out, "Dormir 7h") {
		t.Errorf("Expected goals in output:\n%s", out)
	}

	pdf := filepath.Join(t.TempDir(), "report.pdf")
	c.mustRun("export", id, "--out", pdf)
	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected a PDF file")
	}

	c.mustRun("history", "delete", id)
	if _, err := c.run("history", "show", id); err == nil {
		t.Error("Expected the record to be gone")
	}
}

func TestRatelimitCommands(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	out := c.mustRun("ratelimit", "list")
	if !strings.Contains(out, "No rate limit configuration") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if _, err := c.run("ratelimit", "set", "--rate", "lots"); err == nil {
		t.Error("Expected an invalid rate to be rejected")
	}
	c.mustRun("ratelimit", "set", "--rate", "5-S")
	out = c.mustRun("ratelimit", "list")
	if !strings.Contains(out, "Rate: 5-S") {
		t.Errorf("Expected the stored rate:\n%s", out)
	}
}
