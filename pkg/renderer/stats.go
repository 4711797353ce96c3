package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels visited
	HitPixels   int           // Pixels that received a color
	MissPixels  int           // Pixels left untouched because the ray escaped
	Duration    time.Duration // Wall-clock render time (set by the caller of Render)
}

// Add accumulates the counts of other into the receiver
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.MissPixels += other.MissPixels
}

// Coverage returns the fraction of pixels that received a color
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
