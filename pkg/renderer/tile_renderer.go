package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// TileConfig contains configuration for parallel tile rendering
type TileConfig struct {
	TileSize   int // Size of each square tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultTileConfig returns sensible default values
func DefaultTileConfig() TileConfig {
	return TileConfig{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int // Tile coordinates (not pixel coordinates)
	TileY     int
	Bounds    image.Rectangle // Pixel bounds of the tile in the full image
	TileImage *image.RGBA     // Image data for just this tile

	// Progress information
	TileNumber int // Completed tiles so far (1-based)
	TotalTiles int // Total number of tiles in the image
}

// TileRenderer renders an image in parallel by splitting it into tiles. Every
// pixel is a pure function of its ray, so tiles need no coordination beyond
// writing to disjoint parts of the shared buffer.
type TileRenderer struct {
	raytracer *Raytracer
	config    TileConfig
	tiles     []*Tile
	logger    core.Logger
}

// NewTileRenderer creates a new tile renderer around a raytracer
func NewTileRenderer(raytracer *Raytracer, config TileConfig, logger core.Logger) *TileRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &TileRenderer{
		raytracer: raytracer,
		config:    config,
		tiles:     NewTileGrid(raytracer.Width(), raytracer.Height(), config.TileSize),
		logger:    logger,
	}
}

// TileCount returns the number of tiles the image is split into
func (tr *TileRenderer) TileCount() int {
	return len(tr.tiles)
}

// Render renders all tiles and returns the assembled image. tileCallback, if
// not nil, is invoked from the calling goroutine as each tile completes. When
// ctx is cancelled no further tiles are submitted and ctx.Err() is returned
// once in-flight tiles finish.
func (tr *TileRenderer) Render(ctx context.Context, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	if tr.raytracer.scene == nil {
		return nil, RenderStats{}, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, tr.raytracer.Width(), tr.raytracer.Height()))
	workerPool := NewWorkerPool(tr.raytracer, len(tr.tiles), tr.config.NumWorkers)

	tr.logger.Printf("Rendering %d tiles (%dx%d) with %d workers...\n",
		len(tr.tiles), tr.raytracer.Width(), tr.raytracer.Height(), workerPool.GetNumWorkers())

	startTime := time.Now()
	workerPool.Start()

	submitted := 0
	for taskID, tile := range tr.tiles {
		if ctx.Err() != nil {
			break
		}
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: taskID, Image: img})
		submitted++
	}

	stats := RenderStats{}
	for i := 0; i < submitted; i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			workerPool.Stop()
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.Add(result.Stats)

		if tileCallback != nil && ctx.Err() == nil {
			tile := tr.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / tr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / tr.config.TileSize,
				Bounds:     tile.Bounds,
				TileImage:  extractTileImage(img, tile.Bounds),
				TileNumber: i + 1,
				TotalTiles: len(tr.tiles),
			})
		}
	}

	workerPool.Stop()
	stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		tr.logger.Printf("Rendering cancelled after %d of %d tiles\n", submitted, len(tr.tiles))
		return nil, stats, err
	}

	tr.logger.Printf("Render completed in %v (%d of %d pixels hit)\n",
		stats.Duration, stats.HitPixels, stats.TotalPixels)

	return img, stats, nil
}

// extractTileImage copies a tile's pixels out of the full image
func extractTileImage(img *image.RGBA, bounds image.Rectangle) *image.RGBA {
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, img.RGBAAt(x, y))
		}
	}
	return tileImage
}
