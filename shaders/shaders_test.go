package shaders_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/oil"
	"github.com/gogpu/oil/compose"
	"github.com/gogpu/oil/macro"
	"github.com/gogpu/oil/shaders"
)

func newResolver() *oil.Resolver {
	return oil.NewResolver(oil.NewFSLoader(shaders.FS()))
}

func TestUnlitDiffuse(t *testing.T) {
	env := macro.NewEnv().
		Set("CAMERA_GROUP", 0).
		Set("MODEL_GROUP", 1).
		Set("TEXTURE_GROUP", 2)

	shader, err := newResolver().Resolve(shaders.UnlitDiffuse, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	wantEPs := []compose.EntryPoint{
		{Name: "vs_main", Stage: compose.StageVertex},
		{Name: "fs_main", Stage: compose.StageFragment},
	}
	if diff := cmp.Diff(wantEPs, shader.EntryPoints); diff != "" {
		t.Errorf("entry points mismatch (-want +got):\n%s", diff)
	}

	wantBindings := []compose.Binding{
		{Group: 0, Binding: 0, Symbol: "include_camera_camera", Path: "include/camera.wgsl"},
		{Group: 1, Binding: 0, Symbol: "include_model_model", Path: "include/model.wgsl"},
		{Group: 2, Binding: 0, Symbol: "include_texture_sample_t_diffuse", Path: "include/texture_sample.wgsl"},
		{Group: 2, Binding: 1, Symbol: "include_texture_sample_s_diffuse", Path: "include/texture_sample.wgsl"},
	}
	if diff := cmp.Diff(wantBindings, shader.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	if strings.Contains(shader.Source, "::") || strings.Contains(shader.Source, "#") {
		t.Errorf("directive or qualified reference left in output:\n%s", shader.Source)
	}
}

func TestText(t *testing.T) {
	env := macro.NewEnv().
		Set("CAMERA_GROUP", 0).
		Set("MODEL_GROUP", 1).
		Set("FONT_GROUP", 2)

	shader, err := newResolver().Resolve(shaders.Text, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// The atlas sampler index is derived from the atlas texture index.
	wantBindings := []compose.Binding{
		{Group: 0, Binding: 0, Symbol: "include_camera_camera", Path: "include/camera.wgsl"},
		{Group: 1, Binding: 0, Symbol: "include_model_model", Path: "include/model.wgsl"},
		{Group: 2, Binding: 0, Symbol: "t_atlas", Path: "text.wgsl"},
		{Group: 2, Binding: 1, Symbol: "s_atlas", Path: "text.wgsl"},
	}
	if diff := cmp.Diff(wantBindings, shader.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	if _, ok := shader.EntryPoint("fs_main"); !ok {
		t.Error("fs_main entry point missing")
	}
}

func TestSharedFragmentsAcrossPipelines(t *testing.T) {
	// Both pipelines import the camera and model fragments; each composition
	// places them independently, so swapped groups are fine.
	r := newResolver()

	mesh, err := r.Resolve(shaders.UnlitDiffuse, macro.NewEnv().
		Set("CAMERA_GROUP", 0).Set("MODEL_GROUP", 1).Set("TEXTURE_GROUP", 2))
	if err != nil {
		t.Fatalf("Resolve mesh: %v", err)
	}
	text, err := r.Resolve(shaders.Text, macro.NewEnv().
		Set("CAMERA_GROUP", 1).Set("MODEL_GROUP", 0).Set("FONT_GROUP", 3))
	if err != nil {
		t.Fatalf("Resolve text: %v", err)
	}

	if mesh.Bindings[0].Group != 0 || text.Bindings[0].Group != 1 {
		t.Errorf("camera groups = %d, %d; want 0, 1",
			mesh.Bindings[0].Group, text.Bindings[0].Group)
	}
}

func TestExclusiveVertexSource(t *testing.T) {
	env := macro.NewEnv().
		Set("CAMERA_GROUP", 0).
		Set("MODEL_GROUP", 1).
		Set("TEXTURE_GROUP", 2)

	shader, err := newResolver().Resolve(shaders.UnlitDiffuse, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	vertexOnly, err := shader.ExclusiveSource("vs_main")
	if err != nil {
		t.Fatalf("ExclusiveSource: %v", err)
	}
	if !strings.Contains(vertexOnly, "fn vs_main") {
		t.Error("vertex entry point missing")
	}
	if strings.Contains(vertexOnly, "fn fs_main") {
		t.Error("fragment entry point not removed")
	}
}

func TestMissingEnvBinding(t *testing.T) {
	_, err := newResolver().Resolve(shaders.UnlitDiffuse, macro.NewEnv().
		Set("CAMERA_GROUP", 0).Set("MODEL_GROUP", 1))
	var ue *macro.UndefinedError
	if !errors.As(err, &ue) || ue.Name != "TEXTURE_GROUP" {
		t.Fatalf("expected UndefinedError for TEXTURE_GROUP, got %v", err)
	}
}
