// Command oilc composes oil shader fragments into final WGSL and,
// optionally, SPIR-V.
//
// Usage:
//
//	oilc compose -D CAMERA_GROUP=0 -D MODEL_GROUP=1 shaders/unlit_diffuse.wgsl
//	oilc compile -D CAMERA_GROUP=0 -o shader.spv shaders/unlit_diffuse.wgsl
//	oilc list    -D CAMERA_GROUP=0 shaders/unlit_diffuse.wgsl
//	oilc watch   -D CAMERA_GROUP=0 shaders/unlit_diffuse.wgsl
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gogpu/oil"
	"github.com/gogpu/oil/macro"
	"github.com/gogpu/oil/watch"
)

var (
	defines  []string
	output   string
	entry    string
	validate bool
)

func main() {
	root := &cobra.Command{
		Use:           "oilc",
		Short:         "oilc composes WGSL shader fragments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringArrayVarP(&defines, "define", "D", nil,
		"macro binding NAME=INT (repeatable)")
	root.PersistentFlags().BoolVar(&validate, "validate", true,
		"parse composed output with naga")

	composeCmd := &cobra.Command{
		Use:   "compose <root.wgsl>",
		Short: "compose a shader and print the final WGSL",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompose,
	}
	composeCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	compileCmd := &cobra.Command{
		Use:   "compile <root.wgsl>",
		Short: "compose a shader and compile it to SPIR-V",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	compileCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <root>.spv)")
	compileCmd.Flags().StringVarP(&entry, "entry", "e", "", "keep only this entry point")

	listCmd := &cobra.Command{
		Use:   "list <root.wgsl>",
		Short: "list entry points and binding slots of a composition",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	watchCmd := &cobra.Command{
		Use:   "watch <root.wgsl>",
		Short: "recompose on fragment changes until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}

	root.AddCommand(composeCmd, compileCmd, listCmd, watchCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "oilc:", err)
		os.Exit(1)
	}
}

// resolveArg composes the shader named by the positional argument, rooting
// the loader at the file's directory.
func resolveArg(input string, opts ...oil.Option) (*oil.ComposedShader, *oil.Resolver, string, error) {
	env, err := parseDefines(defines)
	if err != nil {
		return nil, nil, "", err
	}

	dir := filepath.Dir(input)
	rootPath := filepath.Base(input)
	loader := oil.NewFSLoader(os.DirFS(dir))
	resolver := oil.NewResolver(loader, append([]oil.Option{oil.WithValidation(validate)}, opts...)...)

	shader, err := resolver.Resolve(rootPath, env)
	if err != nil {
		return nil, nil, "", err
	}
	return shader, resolver, dir, nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	shader, _, _, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.WriteString(shader.Source)
		return err
	}
	return os.WriteFile(output, []byte(shader.Source), 0o644)
}

func runCompile(cmd *cobra.Command, args []string) error {
	shader, _, _, err := resolveArg(args[0])
	if err != nil {
		return err
	}

	source := shader.Source
	if entry != "" {
		source, err = shader.ExclusiveSource(entry)
		if err != nil {
			return err
		}
	}
	spirv, err := naga.Compile(source)
	if err != nil {
		return fmt.Errorf("compile %s: %w", args[0], err)
	}

	out := output
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".spv"
	}
	if err := os.WriteFile(out, spirv, 0o644); err != nil {
		return err
	}
	fmt.Printf("compiled %s to %s (%d bytes)\n", args[0], out, len(spirv))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	shader, _, _, err := resolveArg(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d fragments)\n", shader.Root, len(shader.Fragments))
	fmt.Println("entry points:")
	for _, ep := range shader.EntryPoints {
		fmt.Printf("  @%s fn %s\n", ep.Stage, ep.Name)
	}
	fmt.Println("bindings:")
	for _, b := range shader.Bindings {
		fmt.Printf("  @group(%d) @binding(%d) %s  // %s\n", b.Group, b.Binding, b.Symbol, b.Path)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	shader, resolver, dir, err := resolveArg(args[0], oil.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("composed",
		zap.String("root", shader.Root),
		zap.Int("fragments", len(shader.Fragments)))

	env, err := parseDefines(defines)
	if err != nil {
		return err
	}
	recomposer := recomposeFunc(func(path string) {
		resolver.Invalidate(path)
		if _, err := resolver.Resolve(filepath.Base(args[0]), env); err != nil {
			logger.Error("recompose failed", zap.Error(err))
			return
		}
		logger.Info("recomposed", zap.String("changed", path))
	})

	w, err := watch.New(dir, recomposer, watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}

// recomposeFunc adapts a function to watch.Invalidator.
type recomposeFunc func(path string)

// Invalidate implements watch.Invalidator.
func (f recomposeFunc) Invalidate(path string) { f(path) }

// parseDefines turns repeated -D NAME=INT flags into a macro environment.
func parseDefines(defs []string) (*macro.Env, error) {
	env := macro.NewEnv()
	for _, d := range defs {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			return nil, fmt.Errorf("bad define %q, want NAME=INT", d)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("bad define %q: %v", d, err)
		}
		env.Set(strings.TrimSpace(name), n)
	}
	return env, nil
}
