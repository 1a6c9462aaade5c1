package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edupath/internal/api"
	"edupath/internal/config"
)

func testCLI(t *testing.T) (func() *cli, func(c *cli, stdin string, args ...string) (string, string, error)) {
	t.Helper()
	stub := httptest.NewServer(api.NewServer(api.Config{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}).Router())
	t.Cleanup(stub.Close)
	cfg := config.Config{
		APIURL:         stub.URL,
		HTTPTimeout:    5 * time.Second,
		SessionBackend: config.BackendFile,
		SessionDir:     t.TempDir(),
		MasterKeyHex:   strings.Repeat("cd", 32),
	}
	newCLI := func() *cli { return &cli{cfg: cfg, logger: zap.NewNop()} }
	run := func(c *cli, stdin string, args ...string) (string, string, error) {
		var out, errOut bytes.Buffer
		root := c.root()
		root.SetArgs(args)
		root.SetIn(strings.NewReader(stdin))
		root.SetOut(&out)
		root.SetErr(&errOut)
		err := root.ExecuteContext(context.Background())
		return out.String(), errOut.String(), err
	}
	return newCLI, run
}

func TestRegisterThenWhoamiInNewProcess(t *testing.T) {
	newCLI, run := testCLI(t)

	out, _, err := run(newCLI(), "secret1\n", "register", "--email", "asha@example.com", "--name", "asha devi", "--role", "student")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out, "Asha Devi") {
		t.Fatalf("register output: %s", out)
	}

	out, _, err = run(newCLI(), "", "whoami")
	if err != nil || !strings.Contains(out, "asha@example.com") {
		t.Fatalf("whoami: %v %s", err, out)
	}

	if _, _, err := run(newCLI(), "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, errOut, err := run(newCLI(), "", "whoami")
	if err == nil || !strings.Contains(errOut, "Please log in first") {
		t.Fatalf("whoami after logout: %v %q", err, errOut)
	}
}

func TestShortPasswordRejectedLocally(t *testing.T) {
	newCLI, run := testCLI(t)
	_, errOut, err := run(newCLI(), "", "register", "--email", "a@example.com", "--password", "abc", "--name", "Ravi")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(errOut, "password: Password must be at least 6 characters long") {
		t.Fatalf("stderr: %q", errOut)
	}
}

func TestParentCannotOpenRecommendations(t *testing.T) {
	newCLI, run := testCLI(t)
	c := newCLI()
	if _, _, err := run(c, "", "register", "--email", "p@example.com", "--password", "secret1", "--name", "Parent", "--role", "parent"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, errOut, err := run(newCLI(), "", "dashboard", "--tab", "recommendations")
	if err == nil || !strings.Contains(errOut, "You are not allowed to do this") {
		t.Fatalf("got %v %q", err, errOut)
	}
	out, _, err := run(newCLI(), "", "dashboard", "--tab", "scholarships")
	if err != nil || !strings.Contains(out, "Kashmir Merit Scholarship") {
		t.Fatalf("scholarships: %v %s", err, out)
	}
}

func TestShellKeepsSessionAndSwitchesLanguage(t *testing.T) {
	newCLI, run := testCLI(t)
	input := strings.Join([]string{
		`register --email s@example.com --name "Meera Shah" --role student`,
		"secret1",
		`recommend --interests "Technology, Coding" --level 12th`,
		"lang hi",
		"dashboard --tab overview",
		"exit",
	}, "\n") + "\n"

	out, errOut, err := run(newCLI(), input, "shell")
	if err != nil {
		t.Fatalf("shell: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "Software Development") {
		t.Fatalf("recommendation missing:\n%s", out)
	}
	if !strings.Contains(out, "प्रोफ़ाइल पूर्णता") {
		t.Fatalf("hindi overview missing:\n%s", out)
	}
}

func TestSplitArgs(t *testing.T) {
	got, err := splitArgs(`recommend --interests "Math, Physics" --level '12th'  `)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"recommend", "--interests", "Math, Physics", "--level", "12th"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q", got)
	}
	if _, err := splitArgs(`login "unterminated`); err == nil {
		t.Fatal("expected error")
	}
}
