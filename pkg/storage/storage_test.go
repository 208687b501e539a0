package storage

import "testing"

func TestImportKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{name: "plain", fileName: "groups.csv", want: "imports/abc/groups.csv"},
		{name: "strips directories", fileName: "../../etc/groups.csv", want: "imports/abc/groups.csv"},
		{name: "windows path", fileName: `C:\exports\groups.csv`, want: "imports/abc/groups.csv"},
		{name: "empty", fileName: "  ", want: "imports/abc/upload.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImportKey("abc", tt.fileName); got != tt.want {
				t.Fatalf("ImportKey(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New(Config{Type: "ftp"}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
