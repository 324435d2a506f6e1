package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxDetectionImages = 10

var (
	ErrDetectionUnavailable = errors.New("detection service not configured")
	ErrDetectionUpstream    = errors.New("detection service error")
)

// DetectionImage is one capture from the guided extinguisher check.
type DetectionImage struct {
	StepID    string `json:"stepId"`
	DataURL   string `json:"dataUrl"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type ExtinguisherInfo struct {
	SerialNo string `json:"serialNo"`
	Location string `json:"location"`
	TypeSize string `json:"typeSize"`
}

type DetectionRequest struct {
	Images           []DetectionImage  `json:"images"`
	ExtinguisherInfo *ExtinguisherInfo `json:"extinguisherInfo,omitempty"`
	MinConfidence    float64           `json:"minConfidence,omitempty"`
}

type Detection struct {
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox,omitempty"`
}

type DetectionResult struct {
	StepID     string      `json:"stepId"`
	Detections []Detection `json:"detections"`
}

type DetectionResponse struct {
	Success bool              `json:"success"`
	Results []DetectionResult `json:"results"`
	Error   string            `json:"error,omitempty"`
}

// DetectionService proxies extinguisher component detection to the
// model server so browser clients never talk to it directly.
type DetectionService struct {
	baseURL string
	client  *http.Client
}

func NewDetectionService() *DetectionService {
	return &DetectionService{
		baseURL: strings.TrimRight(os.Getenv("AI_DETECTION_URL"), "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *DetectionService) Enabled() bool {
	return s.baseURL != ""
}

// Detect forwards the captured images and passes the model response
// through unchanged.
func (s *DetectionService) Detect(ctx context.Context, req *DetectionRequest) (*DetectionResponse, error) {
	if !s.Enabled() {
		return nil, ErrDetectionUnavailable
	}
	if req == nil || len(req.Images) == 0 {
		return nil, errors.New("no images to analyze")
	}
	if len(req.Images) > maxDetectionImages {
		return nil, fmt.Errorf("too many images: %d (max %d)", len(req.Images), maxDetectionImages)
	}
	for _, img := range req.Images {
		if strings.TrimSpace(img.DataURL) == "" {
			return nil, fmt.Errorf("image %q has no data", img.StepID)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrDetectionUpstream, resp.StatusCode)
	}

	var out DetectionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrDetectionUpstream, err)
	}
	return &out, nil
}

// Health queries the model server health endpoint; an unconfigured
// proxy reports itself as such instead of failing.
func (s *DetectionService) Health(ctx context.Context) map[string]interface{} {
	if !s.Enabled() {
		return map[string]interface{}{"status": "unconfigured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return map[string]interface{}{"status": "error", "error": err.Error()}
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return map[string]interface{}{"status": "unreachable", "error": err.Error()}
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil || out == nil {
		return map[string]interface{}{"status": "error"}
	}
	return out
}
