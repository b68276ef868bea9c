package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			fmt.Printf("%d\n", idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
		})
	}

	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]interface{}{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(os.Stderr, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// prettyPrint renders the payload shapes the commands produce: a field
// map becomes aligned "key: value" lines, a row slice one line per row.
func (f *OutputFormatter) prettyPrint(data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		printFieldMap(v)
	case []map[string]interface{}:
		for _, row := range v {
			fmt.Println(oneLine(row))
		}
	default:
		fmt.Printf("%+v\n", data)
	}
	return nil
}

func printFieldMap(m map[string]interface{}) {
	keys := sortedKeys(m)
	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}
	for _, k := range keys {
		fmt.Printf("%-*s  %v\n", width+1, k+":", m[k])
	}
}

func oneLine(m map[string]interface{}) string {
	out := ""
	for i, k := range sortedKeys(m) {
		if i > 0 {
			out += "  "
		}
		out += fmt.Sprintf("%s=%v", k, m[k])
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
