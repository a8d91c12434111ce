package validation

import (
	"testing"
)

func TestValidate_WheelMode(t *testing.T) {
	t.Parallel()

	type body struct {
		Mode string `validate:"required,wheel_mode"`
	}
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"standard", false},
		{"custom", false},
		{"", true},
		{"advanced", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(body{Mode: tt.mode})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
		})
	}
}

func TestStripControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Saúde", "Saúde"},
		{"  Saúde  ", "  Saúde  "},
		{" A", " A"},
		{"linha1\nlinha2", "linha1\nlinha2"},
		{"a\x00b\x07c", "abc"},
		{"\t", "\t"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripControl(tt.in); got != tt.want {
			t.Errorf("StripControl(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
