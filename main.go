package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneName    string
	EnvFile      string
	Width        int
	Height       int
	MaxDepth     int
	NoAmbient    bool
	NoDiffuse    bool
	NoSpecular   bool
	NoReflection bool
	Workers      int
	TileSize     int
	OutputDir    string
	RawRows      bool
	Upload       bool
	Help         bool
}

func main() {
	cfg := parseFlags()

	if cfg.Help {
		showHelp()
		return
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	cfg := Config{}
	flag.StringVar(&cfg.SceneName, "scene", "default", "Built-in scene id, scene file path, or name of a file in the scenes directory")
	flag.StringVar(&cfg.EnvFile, "env", ".env", "Optional .env file with RAYTRACER_* and S3_* settings")
	flag.IntVar(&cfg.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&cfg.Height, "height", 0, "Image height in pixels (0 = scene default)")
	flag.IntVar(&cfg.MaxDepth, "max-depth", integrator.DefaultConfig().MaxDepth, "Maximum reflection depth")
	flag.BoolVar(&cfg.NoAmbient, "no-ambient", false, "Disable the ambient term")
	flag.BoolVar(&cfg.NoDiffuse, "no-diffuse", false, "Disable the diffuse term")
	flag.BoolVar(&cfg.NoSpecular, "no-specular", false, "Disable the specular term")
	flag.BoolVar(&cfg.NoReflection, "no-reflection", false, "Disable reflections")
	flag.IntVar(&cfg.Workers, "workers", -1, "Number of parallel workers (0 = auto, -1 = from environment)")
	flag.IntVar(&cfg.TileSize, "tile-size", renderer.DefaultTileConfig().TileSize, "Tile size in pixels")
	flag.StringVar(&cfg.OutputDir, "out", "", "Output directory (default from RAYTRACER_OUTPUT_DIR)")
	flag.BoolVar(&cfg.RawRows, "raw-rows", false, "Save rows in camera order, bottom row first (image appears upside down)")
	flag.BoolVar(&cfg.Upload, "upload", false, "Also upload the render to S3 (requires S3_BUCKET)")
	flag.BoolVar(&cfg.Help, "help", false, "Show help information")
	flag.Parse()
	return cfg
}

func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png")
}

func run(cfg Config) error {
	env, err := config.Load(cfg.EnvFile)
	if err != nil {
		return err
	}

	renderConfig := createIntegratorConfig(cfg)
	if err := renderConfig.Validate(); err != nil {
		return err
	}

	s, err := createScene(cfg, env.ScenesDir)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers < 0 {
		workers = env.Workers
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = env.OutputDir
	}

	fmt.Printf("Rendering %q at %dx%d (max depth %d)...\n",
		s.Name, s.Camera.Width, s.Camera.Height, renderConfig.MaxDepth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	raytracer := renderer.NewRaytracer(s, renderConfig)
	tileRenderer := renderer.NewTileRenderer(raytracer, renderer.TileConfig{
		TileSize:   cfg.TileSize,
		NumWorkers: workers,
	}, renderer.NewDefaultLogger())

	img, stats, err := tileRenderer.Render(ctx, nil)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("Render completed in %v, %.1f%% of pixels hit\n", stats.Duration, stats.Coverage()*100)

	name := createOutputName(s.Name, time.Now())
	sink := output.NewFileSink(outputDir)
	sink.FlipVertical = cfg.RawRows
	path, err := sink.Write(ctx, name, img)
	if err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", path)

	if cfg.Upload {
		s3Sink, err := output.NewS3Sink(env.S3)
		if err != nil {
			return err
		}
		location, err := s3Sink.Write(ctx, name, img)
		if err != nil {
			return err
		}
		fmt.Printf("Render uploaded to %s\n", location)
	}

	return nil
}

// createScene resolves the requested scene and applies any size override
func createScene(cfg Config, scenesDir string) (*scene.Scene, error) {
	if cfg.SceneName == "" {
		return nil, fmt.Errorf("no scene specified")
	}

	s, err := loaders.ResolveScene(cfg.SceneName, scenesDir)
	if err != nil {
		return nil, err
	}

	width, height := s.Camera.Width, s.Camera.Height
	if cfg.Width > 0 {
		width = cfg.Width
	}
	if cfg.Height > 0 {
		height = cfg.Height
	}
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("image must be at least 2x2 pixels, got %dx%d", width, height)
	}
	if width != s.Camera.Width || height != s.Camera.Height {
		s = s.WithResolution(width, height)
	}

	return s, nil
}

// createIntegratorConfig maps the command line toggles onto a render config
func createIntegratorConfig(cfg Config) integrator.Config {
	renderConfig := integrator.DefaultConfig()
	renderConfig.MaxDepth = cfg.MaxDepth
	renderConfig.Ambient = !cfg.NoAmbient
	renderConfig.Diffuse = !cfg.NoDiffuse
	renderConfig.Specular = !cfg.NoSpecular
	renderConfig.Reflection = !cfg.NoReflection
	return renderConfig
}

// createOutputName returns <scene>/render_<timestamp>.png with the scene
// name made filesystem friendly
func createOutputName(sceneName string, now time.Time) string {
	dir := strings.ToLower(strings.Join(strings.Fields(sceneName), "-"))
	dir = strings.ReplaceAll(dir, string(filepath.Separator), "-")
	if dir == "" {
		dir = "scene"
	}
	return filepath.Join(dir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}
