package tech

import (
	"testing"

	"github.com/chipgrid/trackplan/pkg/errors"
)

func TestDecode(t *testing.T) {
	data := []byte(`
[layer.4]
pitch = 48
default_width = 32
default_space = 48

[layer.4.width]
clk = 64

[layer.4.space]
"sig:clk" = 64
`)
	tbl, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got := tbl.Pitch(4); got != 48 {
		t.Errorf("Pitch(4) = %d, want 48", got)
	}
	if got := tbl.Width(4, "clk"); got != 64 {
		t.Errorf("Width(clk) = %d, want 64", got)
	}
	if got := tbl.Width(4, "sig"); got != 32 {
		t.Errorf("Width(sig) = %d, want default 32", got)
	}
	// Pair keys are symmetric.
	if got := tbl.Separation(4, "sig", "clk"); got != 64 {
		t.Errorf("Separation(sig, clk) = %d, want 64", got)
	}
	if got := tbl.Separation(4, "clk", "sig"); got != 64 {
		t.Errorf("Separation(clk, sig) = %d, want 64", got)
	}
	if got := tbl.Separation(4, "sig", "sig"); got != 48 {
		t.Errorf("Separation(sig, sig) = %d, want default 48", got)
	}

	layers := tbl.Layers()
	if len(layers) != 1 || layers[0] != 4 {
		t.Errorf("Layers() = %v, want [4]", layers)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Empty", data: ""},
		{name: "NonIntegerLayer", data: "[layer.m4]\npitch = 48\n"},
		{name: "ZeroPitch", data: "[layer.4]\npitch = 0\n"},
		{name: "NegativeWidth", data: "[layer.4]\npitch = 48\n[layer.4.width]\nclk = -1\n"},
		{name: "BadPairKey", data: "[layer.4]\npitch = 48\n[layer.4.space]\nsig = 10\n"},
		{name: "NegativeSpace", data: "[layer.4]\npitch = 48\n[layer.4.space]\n\"a:b\" = -5\n"},
		{name: "NotTOML", data: "{pitch: 48}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidTech) {
				t.Fatalf("code = %s, want INVALID_TECH", errors.GetCode(err))
			}
		})
	}
}

func TestUniform(t *testing.T) {
	tbl := Uniform(10, 4, 12)

	// Any layer resolves through the fallback.
	for _, layer := range []int{0, 3, 99} {
		if got := tbl.Pitch(layer); got != 10 {
			t.Errorf("Pitch(%d) = %d, want 10", layer, got)
		}
		if got := tbl.Width(layer, "anything"); got != 4 {
			t.Errorf("Width(%d) = %d, want 4", layer, got)
		}
		if got := tbl.Separation(layer, "a", "b"); got != 12 {
			t.Errorf("Separation(%d) = %d, want 12", layer, got)
		}
	}
	if got := tbl.Layers(); len(got) != 0 {
		t.Errorf("Layers() = %v, want empty for uniform table", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("testdata/does-not-exist.toml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("code = %s, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
