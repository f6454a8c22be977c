package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fridgechef/internal/links"
	"fridgechef/internal/pipeline"
)

const (
	defaultServings = 4
	maxServings     = 20
	sampledLinks    = 3
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// Runner defines the pipeline operations the handlers need.
type Runner interface {
	Run(ctx context.Context, images []pipeline.Image, servings int) (*pipeline.Result, error)
	Recognize(ctx context.Context, img pipeline.Image) pipeline.ImageReport
}

// Handler handles HTTP requests.
type Handler struct {
	Pipeline Runner
	Logger   *zap.Logger

	// CallTimeout is the budget for one remote call; a run gets one budget
	// per image plus one for the suggestion.
	CallTimeout time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(p Runner, logger *zap.Logger, callTimeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 45 * time.Second
	}
	return &Handler{
		Pipeline:    p,
		Logger:      logger.Named("api"),
		CallTimeout: callTimeout,
	}
}

type analyzeResponse struct {
	*pipeline.Result
	Message string   `json:"message,omitempty"`
	Links   []string `json:"links,omitempty"`
}

func readImageFile(file *multipart.FileHeader) (pipeline.Image, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		return pipeline.Image{}, fmt.Errorf("invalid file %q. Only JPEG, JPG, and PNG images are allowed", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return pipeline.Image{}, fmt.Errorf("open file err: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return pipeline.Image{}, fmt.Errorf("read image err: %w", err)
	}

	return pipeline.Image{Name: file.Filename, Data: data}, nil
}

// Analyze handles a batch upload: quality-gates, recognizes, and aggregates
// each image, then returns a recipe for the requested serving count.
func (h *Handler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.String(http.StatusBadRequest, "no images supplied: attach one or more files under the 'images' field")
		return
	}

	servings := defaultServings
	if raw := c.PostForm("servings"); raw != "" {
		servings, err = strconv.Atoi(raw)
		if err != nil || servings < 1 || servings > maxServings {
			c.String(http.StatusBadRequest, fmt.Sprintf("servings must be an integer between 1 and %d", maxServings))
			return
		}
	}

	// Filter selections are accepted but not applied yet; reserved.
	if pref, cuisine := c.PostForm("dietary_preference"), c.PostForm("cuisine"); pref != "" || cuisine != "" {
		h.Logger.Debug("ignoring filter selections",
			zap.String("dietary_preference", pref), zap.String("cuisine", cuisine))
	}

	images := make([]pipeline.Image, 0, len(files))
	for _, file := range files {
		img, err := readImageFile(file)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		images = append(images, img)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(len(images)+1)*h.CallTimeout)
	defer cancel()

	result, err := h.Pipeline.Run(ctx, images, servings)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoUsableImages):
			c.JSON(http.StatusBadRequest, analyzeResponse{Result: result, Message: err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			c.String(http.StatusRequestTimeout, "analysis timed out, please try again")
		default:
			h.Logger.Error("pipeline run failed", zap.Error(err))
			c.String(http.StatusInternalServerError, fmt.Sprintf("pipeline err: %s", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Result: result,
		Links:  links.Sample(sampledLinks),
	})
}

// Recognize handles the single-photo flow: gate one image and return its
// ingredient list without generating a recipe.
func (h *Handler) Recognize(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	img, err := readImageFile(file)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.CallTimeout)
	defer cancel()

	c.JSON(http.StatusOK, h.Pipeline.Recognize(ctx, img))
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
