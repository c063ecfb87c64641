package app

import "testing"

func TestValidateUploadPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "pdf", path: "docs/policies.pdf", wantErr: false},
		{name: "png", path: "screenshot.PNG", wantErr: false},
		{name: "jpg", path: "photo.jpg", wantErr: false},
		{name: "jpeg", path: "photo.jpeg", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "whitespace", path: "   ", wantErr: true},
		{name: "text file", path: "notes.txt", wantErr: true},
		{name: "no extension", path: "Makefile", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUploadPath(tc.path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateUploadPath(%q) = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
		})
	}
}
