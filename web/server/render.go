package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// handleRender renders a built-in scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := scene.Builtin(req.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.renderID.Add(1)
	raytracer, err := newRaytracer(sceneObj, req, NewWebLogger(id, nil))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Use request context to stop rendering when the client disconnects
	start := time.Now()
	fb, stats, err := raytracer.Render(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[render %d] cancelled after %v", id, time.Since(start))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := renderer.Encode(&buf, fb, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encoding error: %v", err))
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Id", strconv.FormatInt(id, 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[render %d] error writing response: %v", id, err)
	}
}

// newRaytracer builds a raytracer for the request using the default camera geometry
func newRaytracer(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*renderer.Raytracer, error) {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = req.Width
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	sampling := renderer.DefaultSamplingConfig()
	sampling.SamplesPerPixel = req.Samples
	sampling.MaxDepth = req.Depth
	sampling.Seed = req.Seed

	return renderer.NewRaytracer(sceneObj, camera, sampling, logger)
}
