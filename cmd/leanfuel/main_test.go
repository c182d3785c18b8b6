package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCaloriesCommand(t *testing.T) {
	out, err := run(t, "calories", "--gender", "male", "--age", "30", "--height", "180", "--weight", "80")
	if err != nil {
		t.Fatalf("calories: %v", err)
	}
	if strings.TrimSpace(out) != "1698" {
		t.Errorf("output = %q, want 1698", out)
	}

	if _, err := run(t, "calories", "--gender", "male", "--age", "30", "--height", "180", "--weight", "80", "--unit", "stone"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestVAPIDKeysCommand(t *testing.T) {
	out, err := run(t, "vapid-keys")
	if err != nil {
		t.Fatalf("vapid-keys: %v", err)
	}
	if !strings.Contains(out, "LEANFUEL_VAPID_PUBLIC_KEY=") || !strings.Contains(out, "LEANFUEL_VAPID_PRIVATE_KEY=") {
		t.Errorf("unexpected output %q", out)
	}
}
