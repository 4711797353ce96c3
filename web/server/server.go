package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	MinImageSize   = 2
	MaxImageSize   = 2000
	MaxDepthLimit  = 10
	MaxUploadBytes = 1 << 20
	UploadPrefix   = "upload:"
)

// Server handles web requests for the raytracer
type Server struct {
	port   int
	config config.Config
	sink   output.Sink // Optional destination for saved renders

	mu       sync.RWMutex
	uploads  map[string]*scene.Scene
	uploadID int
}

// NewServer creates a new web server
func NewServer(port int, cfg config.Config) *Server {
	return &Server{
		port:    port,
		config:  cfg,
		uploads: make(map[string]*scene.Scene),
	}
}

// SetSink sets where renders requested with save=true are stored
func (s *Server) SetSink(sink output.Sink) {
	s.sink = sink
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string            `json:"scene"`   // Scene id, file name or upload id
	Width   int               `json:"width"`   // Image width, 0 for the scene's own
	Height  int               `json:"height"`  // Image height, 0 for the scene's own
	Config  integrator.Config `json:"config"`  // Depth and lighting toggles
	Preview uint              `json:"preview"` // Maximum preview width, 0 for full size
	Thumb   uint              `json:"thumb"`   // Square box the returned image must fit in, 0 for none
	Save    bool              `json:"save"`    // Store the result through the server's sink
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/scene", s.handleSceneUpload)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes, scene files and uploaded scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if uploaded := s.uploadedScenes(); len(uploaded) > 0 {
		response.Groups = append(response.Groups, scene.SceneGroup{
			Name:   "Uploaded Scenes",
			Scenes: uploaded,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// handleSceneUpload stores a scene posted as JSON and returns its id
func (s *Server) handleSceneUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "POST a scene document")
		return
	}

	sceneObj, err := loaders.LoadSceneJSON(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.storeUpload(sceneObj)
	log.Printf("Stored uploaded scene %s (%d objects, %d lights)", id, len(sceneObj.Objects), len(sceneObj.Lights))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"name":    sceneObj.Name,
		"objects": len(sceneObj.Objects),
		"lights":  len(sceneObj.Lights),
	})
}

// storeUpload saves an uploaded scene under a new id
func (s *Server) storeUpload(sceneObj *scene.Scene) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploadID++
	id := fmt.Sprintf("%s%d", UploadPrefix, s.uploadID)
	if sceneObj.Name == "" {
		sceneObj.Name = fmt.Sprintf("Uploaded Scene %d", s.uploadID)
	}
	s.uploads[id] = sceneObj
	return id
}

// uploadedScenes returns metadata for the stored uploads ordered by id
func (s *Server) uploadedScenes() []scene.SceneInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]scene.SceneInfo, 0, len(s.uploads))
	for id, sceneObj := range s.uploads {
		infos = append(infos, scene.SceneInfo{
			ID:    id,
			Name:  sceneObj.Name,
			Group: "Uploaded Scenes",
			Type:  "upload",
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(infos[i].ID, UploadPrefix))
		b, _ := strconv.Atoi(strings.TrimPrefix(infos[j].ID, UploadPrefix))
		return a < b
	})
	return infos
}

// handleSceneConfig returns the default render settings for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.lookupScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	defaults := integrator.DefaultConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"name":  sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":      sceneObj.Camera.Width,
			"height":     sceneObj.Camera.Height,
			"maxDepth":   defaults.MaxDepth,
			"ambient":    defaults.Ambient,
			"diffuse":    defaults.Diffuse,
			"specular":   defaults.Specular,
			"reflection": defaults.Reflection,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":   map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"maxDepth": map[string]int{"min": 0, "max": MaxDepthLimit},
		},
		"objects": len(sceneObj.Objects),
		"lights":  len(sceneObj.Lights),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleImage renders a scene and returns it as a single PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raytracer := renderer.NewRaytracer(sceneObj, req.Config)
	tileRenderer := renderer.NewTileRenderer(raytracer, s.tileConfig(), nil)

	img, stats, err := tileRenderer.Render(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Render cancelled: "+err.Error())
		return
	}

	if req.Save {
		location, err := s.saveRender(r.Context(), sceneObj.Name, img)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		w.Header().Set("X-Render-Location", location)
	}

	var result image.Image = img
	if req.Thumb > 0 {
		result = output.Thumbnail(img, req.Thumb, req.Thumb)
	} else {
		result = output.Preview(img, req.Preview)
	}

	data, err := output.EncodeBytes("render.png", result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// saveRender stores img through the configured sink
func (s *Server) saveRender(ctx context.Context, sceneName string, img image.Image) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("no render storage configured")
	}
	base := strings.ToLower(strings.Join(strings.Fields(sceneName), "-"))
	if base == "" {
		base = "scene"
	}
	name := fmt.Sprintf("%s_%d.png", base, time.Now().Unix())
	return s.sink.Write(ctx, name, img)
}

// tileConfig returns the tile settings for server renders
func (s *Server) tileConfig() renderer.TileConfig {
	tileConfig := renderer.DefaultTileConfig()
	tileConfig.NumWorkers = s.config.Workers
	return tileConfig
}

// parseCommonSceneParams parses the scene and size parameters shared by all
// endpoints that take a scene
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses the scene, size, render toggles and output options
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	cfg := integrator.DefaultConfig()

	var err error
	if cfg.MaxDepth, err = parseIntParam(query, "maxDepth", cfg.MaxDepth, 0, MaxDepthLimit); err != nil {
		return nil, err
	}
	if cfg.Ambient, err = parseBoolParam(query, "ambient", cfg.Ambient); err != nil {
		return nil, err
	}
	if cfg.Diffuse, err = parseBoolParam(query, "diffuse", cfg.Diffuse); err != nil {
		return nil, err
	}
	if cfg.Specular, err = parseBoolParam(query, "specular", cfg.Specular); err != nil {
		return nil, err
	}
	if cfg.Reflection, err = parseBoolParam(query, "reflection", cfg.Reflection); err != nil {
		return nil, err
	}
	req.Config = cfg

	preview, err := parseIntParam(query, "preview", 0, 0, MaxImageSize)
	if err != nil {
		return nil, err
	}
	req.Preview = uint(preview)

	thumb, err := parseIntParam(query, "thumb", 0, 0, MaxImageSize)
	if err != nil {
		return nil, err
	}
	req.Thumb = uint(thumb)

	if req.Save, err = parseBoolParam(query, "save", false); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && cfg.MaxDepth > 5 {
		log.Printf("Render warning: Large image with deep reflections may render slowly")
	}

	return req, nil
}

// lookupScene finds an uploaded scene or resolves a built-in or file scene
func (s *Server) lookupScene(name string) (*scene.Scene, error) {
	if strings.HasPrefix(name, UploadPrefix) {
		s.mu.RLock()
		sceneObj, ok := s.uploads[name]
		s.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("unknown scene: %s", name)
		}
		return sceneObj, nil
	}

	sceneObj, err := loaders.ResolveScene(name, s.config.ScenesDir)
	if err != nil {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return sceneObj, nil
}

// createScene looks up the requested scene and applies the size override.
// Uploaded scenes are shared, so resizing always works on a copy.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.lookupScene(req.Scene)
	if err != nil {
		return nil, err
	}

	width, height := sceneObj.Camera.Width, sceneObj.Camera.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	if width < MinImageSize || height < MinImageSize {
		return nil, fmt.Errorf("image must be at least %dx%d pixels", MinImageSize, MinImageSize)
	}

	return sceneObj.WithResolution(width, height), nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter such as "true", "0" or "false"
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// vec3Array converts a vector for JSON output
func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
