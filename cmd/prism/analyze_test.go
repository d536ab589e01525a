package main

import (
	"testing"
)

func TestReadPromptFromArg(t *testing.T) {
	prompt, err := readPrompt([]string{"Explain the deployment process."})
	if err != nil {
		t.Fatalf("readPrompt() error = %v", err)
	}
	if prompt != "Explain the deployment process." {
		t.Errorf("prompt = %q, want the argument back", prompt)
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	if analyzeCmd.Flags().Lookup("target-model") == nil {
		t.Error("analyze command should have a --target-model flag")
	}
	if analyzeCmd.Flags().Lookup("format") == nil {
		t.Error("analyze command should have a --format flag")
	}
	if analyzeCmd.Flags().Lookup("profile") == nil {
		t.Error("analyze command should have a --profile flag")
	}
}
