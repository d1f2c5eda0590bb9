package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"assetpipe/internal/testsupport"
)

func TestStripCheckFailsOnFlaggedTree(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExcludeDirs("cache"))
	env.seedExampleTree(t)
	before := testsupport.ReadFile(t, filepath.Join(env.root, "b.jpg"))

	out, _, err := runCLI(t, env.configPath, "strip", "--check")
	requireExitCode(t, err, 1)
	requireContains(t, out, "Checking for AI metadata in: "+env.root)
	requireContains(t, out, "Found 1 image(s) with AI/Google metadata:")
	requireContains(t, out, "b.jpg")
	requireContains(t, out, "   • Software: Google")
	requireContains(t, out, "Pre-commit check failed!")
	requireNotContains(t, out, "c.webp")

	if after := testsupport.ReadFile(t, filepath.Join(env.root, "b.jpg")); !bytes.Equal(before, after) {
		t.Fatal("check mode modified b.jpg")
	}
}

func TestStripCleansThenCheckPasses(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExcludeDirs("cache"))
	env.seedExampleTree(t)

	out, _, err := runCLI(t, env.configPath, "strip")
	requireExitCode(t, err, 0)
	requireContains(t, out, "Scanning for AI metadata in:")
	requireContains(t, out, "Stripping AI metadata...")
	requireContains(t, out, "Processing: b.jpg")
	requireContains(t, out, "Cleaned successfully")
	requireContains(t, out, "   Cleaned: 1")
	requireNotContains(t, out, "Failed:")

	out, _, err = runCLI(t, env.configPath, "strip", "--check")
	requireExitCode(t, err, 0)
	requireContains(t, out, "No images with AI/Google metadata found!")
}

func TestStripExplicitRootArgument(t *testing.T) {
	env := setupCLITestEnv(t)
	other := filepath.Join(testsupport.BaseDir(env.cfg), "other")
	testsupport.WriteFile(t, filepath.Join(other, "clean.png"), testsupport.EncodePNG(t, testsupport.OpaqueImage(4, 4)))

	out, _, err := runCLI(t, env.configPath, "strip", "--check", other)
	requireExitCode(t, err, 0)
	requireContains(t, out, "Checking for AI metadata in: "+other)
}

func TestStripMissingRootIsAnError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "strip", filepath.Join(env.root, "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, ok := err.(*exitError); ok {
		t.Fatalf("expected a plain error, got exit status %v", err)
	}
}
