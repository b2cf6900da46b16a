// Package oil composes WGSL shader modules from fragment files.
//
// Shader fragments reference each other through textual directives:
//
//	#import include/camera.wgsl as camera
//	#define SAMPLER_BINDING TEXTURE_BINDING * 2 + 1
//	@export
//	struct CameraUniform { view_proj: mat4x4<f32>, }
//
// A Resolver walks the import graph from a root fragment, evaluates macro
// arithmetic against a caller-supplied environment, namespaces exported
// symbols so same-named declarations from different fragments never collide,
// and emits one dependency-ordered WGSL blob with validated binding slots.
// Results are cached per (root, environment) and can be invalidated when
// fragment files change during development.
//
// Example:
//
//	resolver := oil.NewResolver(oil.NewFSLoader(os.DirFS("shaders")))
//	env := macro.NewEnv().Set("CAMERA_GROUP", 0).Set("MODEL_GROUP", 1)
//	shader, err := resolver.Resolve("unlit_diffuse.wgsl", env)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	device.CreateShaderModule(shader.Source)
//
// The composed text conforms to plain WGSL; hand it to naga or any WebGPU
// implementation. oil performs directive resolution only — expression-level
// validation belongs to the downstream shader compiler.
package oil

import (
	"github.com/gogpu/oil/compose"
	"github.com/gogpu/oil/graph"
	"github.com/gogpu/oil/macro"
)

// Loader supplies fragment source text by path. See graph.Loader.
type Loader = graph.Loader

// ComposedShader is one finished composition: the emitted WGSL plus the
// inputs that produced it. Instances are immutable and shared by the cache.
type ComposedShader struct {
	// Root is the normalized root fragment path.
	Root string

	// Env is the macro environment the composition was resolved under.
	Env *macro.Env

	// Source is the composed WGSL text.
	Source string

	// EntryPoints lists the staged entry functions in Source.
	EntryPoints []compose.EntryPoint

	// Bindings lists the emitted binding declarations with resolved slots.
	Bindings []compose.Binding

	// Fragments lists every fragment path in the composition, in emit order.
	Fragments []string
}

// ExclusiveSource returns Source with all staged entry functions except
// entry removed, for backends that want a single-entry module per stage.
func (c *ComposedShader) ExclusiveSource(entry string) (string, error) {
	return compose.Exclusive(c.Source, entry)
}

// EntryPoint returns the named entry point, if present.
func (c *ComposedShader) EntryPoint(name string) (compose.EntryPoint, bool) {
	for _, ep := range c.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return compose.EntryPoint{}, false
}
