package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Label        string                 `json:"label,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts the unjittered ray through pixel (x, y) and reports the closest object it hits
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, x, y int) InspectResponse {
	ray := camera.CenterRay(x, y)
	hit, isHit := sceneObj.Hit(ray, renderer.ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return InspectResponse{Hit: false}
	}

	response := InspectResponse{
		Hit:       true,
		Label:     hit.Label,
		Point:     [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:    [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:  hit.T,
		FrontFace: hit.FrontFace,
		Properties: map[string]interface{}{
			"geometry": map[string]interface{}{},
		},
	}

	if hit.Material != nil {
		response.MaterialType = hit.Material.Kind.String()
		response.Properties["material"] = map[string]interface{}{
			"albedo": [3]float64{hit.Material.Albedo.X, hit.Material.Albedo.Y, hit.Material.Albedo.Z},
		}
	}

	for _, obj := range sceneObj.Objects {
		if obj.Label != hit.Label {
			continue
		}
		geometryType, props := extractGeometryInfo(obj.Shape)
		response.GeometryType = geometryType
		response.Properties["geometry"] = props
		break
	}
	return response
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, err := scene.Builtin(req.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = req.Width
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Pixel coordinates out of bounds for %dx%d image", camera.Width(), camera.Height()))
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, camera, pixelX, pixelY))
}
