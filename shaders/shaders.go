// Package shaders embeds the standard oil fragment library: vertex layouts,
// camera/model uniform blocks, texture sampling helpers, and the textured
// mesh and screen-space text pipelines built from them.
//
// The library demonstrates fragment reuse across pipeline variants: both
// root shaders import the same camera and model fragments, and the caller's
// macro environment decides which bind groups they land in.
package shaders

import "embed"

//go:embed *.wgsl include/*.wgsl
var library embed.FS

// FS returns the embedded fragment library. Pass it to oil.NewFSLoader.
func FS() embed.FS {
	return library
}

// Root shader paths within the library.
const (
	// UnlitDiffuse is the textured mesh pipeline. Its macro environment
	// must bind CAMERA_GROUP, MODEL_GROUP, and TEXTURE_GROUP.
	UnlitDiffuse = "unlit_diffuse.wgsl"

	// Text is the screen-space text pipeline. Its macro environment must
	// bind CAMERA_GROUP, MODEL_GROUP, and FONT_GROUP.
	Text = "text.wgsl"
)
