package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInputText(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "flag wins", flag: "שלום", stdin: "ignored", want: "שלום"},
		{name: "stdin fallback", flag: "", stdin: "  מהצינור  \n", want: "מהצינור"},
		{name: "blank flag falls through", flag: "   ", stdin: "טקסט", want: "טקסט"},
		{name: "nothing provided", flag: "", stdin: "", wantErr: true},
		{name: "whitespace stdin", flag: "", stdin: " \n\t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInputText(tt.flag, strings.NewReader(tt.stdin))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("readInputText: %v", err)
			}
			if got != tt.want {
				t.Errorf("readInputText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteOutputText(t *testing.T) {
	var stdout strings.Builder
	if err := writeOutputText("-", "שָׁלוֹם", &stdout); err != nil {
		t.Fatalf("writeOutputText: %v", err)
	}
	if stdout.String() != "שָׁלוֹם\n" {
		t.Errorf("stdout = %q", stdout.String())
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutputText(path, "שָׁלוֹם", &stdout); err != nil {
		t.Fatalf("writeOutputText to file: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "שָׁלוֹם\n" {
		t.Errorf("file content = %q", string(b))
	}
}
