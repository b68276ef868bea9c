package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

type mockDataWithID struct {
	ID   int
	Name string
}

func (m mockDataWithID) GetID() int {
	return m.ID
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = oldStdout
	return <-outC
}

func TestOutputFormatter_Success_JSON(t *testing.T) {
	formatter := &OutputFormatter{JSON: true}

	output := captureStdout(t, func() {
		if err := formatter.Success(map[string]interface{}{"id": 7, "name": "Reading"}); err != nil {
			t.Errorf("Success returned error: %v", err)
		}
	})

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !result["success"].(bool) {
		t.Error("Expected success to be true")
	}
	data := result["data"].(map[string]interface{})
	if data["name"] != "Reading" {
		t.Errorf("Expected data.name to be 'Reading', got %v", data["name"])
	}
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	formatter := &OutputFormatter{Quiet: true}

	output := captureStdout(t, func() {
		if err := formatter.Success(mockDataWithID{ID: 42, Name: "Test"}); err != nil {
			t.Errorf("Success returned error: %v", err)
		}
	})

	if strings.TrimSpace(output) != "42" {
		t.Errorf("Expected quiet output '42', got %q", output)
	}
}

func TestOutputFormatter_Success_QuietWithoutID(t *testing.T) {
	// Data without GetID falls through to the human format.
	formatter := &OutputFormatter{Quiet: true}

	output := captureStdout(t, func() {
		_ = formatter.Success(struct{ Name string }{Name: "no id"})
	})

	if !strings.Contains(output, "no id") {
		t.Errorf("Expected fallthrough output to contain data, got %q", output)
	}
}

func TestOutputFormatter_PrettyPrint_FieldMap(t *testing.T) {
	formatter := &OutputFormatter{}

	output := captureStdout(t, func() {
		_ = formatter.Success(map[string]interface{}{
			"name":   "Reading",
			"streak": 4,
		})
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected one line per field, got %q", output)
	}
	// Keys come out sorted, values aligned after the label.
	if !strings.HasPrefix(lines[0], "name:") || !strings.Contains(lines[0], "Reading") {
		t.Errorf("Expected 'name: Reading' line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "streak:") || !strings.Contains(lines[1], "4") {
		t.Errorf("Expected 'streak: 4' line, got %q", lines[1])
	}
}

func TestOutputFormatter_PrettyPrint_Rows(t *testing.T) {
	formatter := &OutputFormatter{}

	output := captureStdout(t, func() {
		_ = formatter.Success([]map[string]interface{}{
			{"id": 1, "name": "Groceries"},
			{"id": 2, "name": "Rent"},
		})
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected one line per row, got %q", output)
	}
	if !strings.Contains(lines[0], "id=1") || !strings.Contains(lines[0], "name=Groceries") {
		t.Errorf("Unexpected row rendering: %q", lines[0])
	}
	if !strings.Contains(lines[1], "name=Rent") {
		t.Errorf("Unexpected row rendering: %q", lines[1])
	}
}

func TestOutputFormatter_Error_JSON(t *testing.T) {
	formatter := &OutputFormatter{JSON: true}

	output := captureStdout(t, func() {
		if err := formatter.ErrorWithSuggestion("NOT_FOUND", "habit 9 not found", "run habit list"); err != nil {
			t.Errorf("ErrorWithSuggestion returned error: %v", err)
		}
	})

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if result["success"].(bool) {
		t.Error("Expected success to be false")
	}
	errData := result["error"].(map[string]interface{})
	if errData["code"] != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %v", errData["code"])
	}
	if errData["suggestion"] != "run habit list" {
		t.Errorf("Expected suggestion in payload, got %v", errData["suggestion"])
	}
}

func TestOutputFormatter_Error_OmitsEmptySuggestion(t *testing.T) {
	formatter := &OutputFormatter{JSON: true}

	output := captureStdout(t, func() {
		_ = formatter.Error("DB_ERROR", "boom")
	})

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	errData := result["error"].(map[string]interface{})
	if _, present := errData["suggestion"]; present {
		t.Error("Expected no suggestion key for empty suggestion")
	}
}
