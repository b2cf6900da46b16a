package directive

import (
	"errors"
	"strings"
	"testing"
)

func TestParseImports(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		path  string
		alias string
	}{
		{"plain", "#import include/camera.wgsl", "include/camera.wgsl", ""},
		{"aliased", "#import include/camera.wgsl as cam", "include/camera.wgsl", "cam"},
		{"quoted", `#import "include/camera.wgsl" as cam`, "include/camera.wgsl", "cam"},
		{"indented", "  #import a.wgsl", "a.wgsl", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("test.wgsl", tt.line)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(f.Imports) != 1 {
				t.Fatalf("expected 1 import, got %d", len(f.Imports))
			}
			imp := f.Imports[0]
			if imp.Path != tt.path {
				t.Errorf("path = %q, want %q", imp.Path, tt.path)
			}
			if imp.Alias != tt.alias {
				t.Errorf("alias = %q, want %q", imp.Alias, tt.alias)
			}
			if imp.Line != 1 {
				t.Errorf("line = %d, want 1", imp.Line)
			}
		})
	}
}

func TestParseDefine(t *testing.T) {
	f, err := Parse("test.wgsl", "#define SAMPLER_BINDING TEXTURE_BINDING * 2 + 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Defines) != 1 {
		t.Fatalf("expected 1 define, got %d", len(f.Defines))
	}
	d := f.Defines[0]
	if d.Name != "SAMPLER_BINDING" {
		t.Errorf("name = %q", d.Name)
	}
	if d.Expr != "TEXTURE_BINDING * 2 + 1" {
		t.Errorf("expr = %q", d.Expr)
	}
}

func TestParseExport(t *testing.T) {
	tests := []struct {
		name   string
		source string
		symbol string
		kind   SymbolKind
	}{
		{
			"struct",
			"@export\nstruct Vertex {\n    pos: vec3<f32>,\n}",
			"Vertex", SymbolStruct,
		},
		{
			"function",
			"@export\nfn sample_diffuse(uv: vec2<f32>) -> vec4<f32> {\n    return vec4<f32>();\n}",
			"sample_diffuse", SymbolFunction,
		},
		{
			"var with inline attributes",
			"@export\n@group(#G) @binding(#B) var<uniform> camera: CameraUniform;",
			"camera", SymbolBinding,
		},
		{
			"var with attribute line",
			"@export\n@group(0) @binding(0)\nvar t_diffuse: texture_2d<f32>;",
			"t_diffuse", SymbolBinding,
		},
		{
			"blank lines between",
			"@export\n\n// the camera block\nstruct CameraUniform {\n}",
			"CameraUniform", SymbolStruct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("test.wgsl", tt.source)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(f.Exports) != 1 {
				t.Fatalf("expected 1 export, got %d", len(f.Exports))
			}
			exp := f.Exports[0]
			if exp.Symbol != tt.symbol {
				t.Errorf("symbol = %q, want %q", exp.Symbol, tt.symbol)
			}
			if exp.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", exp.Kind, tt.kind)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
	}{
		{"unknown directive", "#include foo.wgsl", 1},
		{"fused import keyword", "#importx a.wgsl", 1},
		{"fused define keyword", "#definex N 1", 1},
		{"import without path", "#import", 1},
		{"import bad alias clause", "#import a.wgsl with b", 1},
		{"import unterminated quote", `#import "a.wgsl`, 1},
		{"define without expression", "#define NAME", 1},
		{"define bad name", "#define 2X 1", 1},
		{"export at end of file", "struct A {\n}\n@export", 3},
		{"export before non-declaration", "@export\nreturn;", 1},
		{"tokens after export", "@export struct A {}", 1},
		{"consecutive exports", "@export\n@export\nstruct A {\n}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.wgsl", tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected SyntaxError, got %T: %v", err, err)
			}
			if se.Path != "test.wgsl" {
				t.Errorf("path = %q", se.Path)
			}
			if se.Line != tt.line {
				t.Errorf("line = %d, want %d", se.Line, tt.line)
			}
		})
	}
}

func TestResidualPreservesLines(t *testing.T) {
	source := strings.Join([]string{
		"#import include/camera.wgsl as camera",
		"#define B 1",
		"@export",
		"@group(#G) @binding(#B) var<uniform> u: camera::CameraUniform;",
		"",
	}, "\n")

	f, err := Parse("test.wgsl", source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := strings.Split(f.Residual, "\n")
	want := strings.Split(source, "\n")
	if len(got) != len(want) {
		t.Fatalf("residual has %d lines, want %d", len(got), len(want))
	}
	for i := 0; i < 3; i++ {
		if got[i] != "" {
			t.Errorf("line %d = %q, want blank", i+1, got[i])
		}
	}
	// Macro anchors stay for the composer.
	if !strings.Contains(got[3], "#G") || !strings.Contains(got[3], "#B") {
		t.Errorf("anchors missing from %q", got[3])
	}
}

func TestParseMultipleExports(t *testing.T) {
	source := strings.Join([]string{
		"@export",
		"struct CameraUniform {",
		"    view_proj: mat4x4<f32>,",
		"}",
		"",
		"@export",
		"@group(#G) @binding(0)",
		"var<uniform> camera: CameraUniform;",
	}, "\n")

	f, err := Parse("camera.wgsl", source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(f.Exports))
	}
	if f.Exports[0].Symbol != "CameraUniform" || f.Exports[0].Kind != SymbolStruct {
		t.Errorf("first export = %+v", f.Exports[0])
	}
	if f.Exports[1].Symbol != "camera" || f.Exports[1].Kind != SymbolBinding {
		t.Errorf("second export = %+v", f.Exports[1])
	}
}
