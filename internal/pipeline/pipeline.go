package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fridgechef/internal/imaging"
)

// ErrNoUsableImages is returned when a run ends with nothing to cook from:
// every image was rejected, failed recognition, or none were supplied.
var ErrNoUsableImages = errors.New("no usable images: please provide at least one clear photo of your ingredients")

// Recognizer names the ingredients visible in one JPEG image.
type Recognizer interface {
	RecognizeIngredients(ctx context.Context, imageData []byte) (string, error)
}

// Suggester proposes a recipe for an aggregated ingredient string.
type Suggester interface {
	SuggestRecipe(ctx context.Context, ingredients string, servings int) (string, error)
}

// Image is one submitted photo.
type Image struct {
	Name string
	Data []byte
}

// ImageReport is the per-image outcome of a run.
type ImageReport struct {
	Name        string   `json:"name"`
	Accepted    bool     `json:"accepted"`
	Ingredients []string `json:"ingredients,omitempty"`
	Warning     string   `json:"warning,omitempty"`
}

// Result is the terminal artifact of one run.
type Result struct {
	Images      []ImageReport `json:"images"`
	Ingredients string        `json:"ingredients,omitempty"`
	Recipe      string        `json:"recipe,omitempty"`
	Warning     string        `json:"warning,omitempty"`
}

// Options tunes preprocessing and remote-call behavior.
type Options struct {
	Gate        imaging.GateOptions
	JPEGQuality int
	// MaxDimension caps the longest side before the gate; 0 disables.
	MaxDimension uint
	// CallTimeout bounds each remote call, derived from the run context.
	CallTimeout time.Duration
}

// Pipeline runs the upload batch flow: per image gate → compress → recognize,
// then one suggestion call over the aggregate. It holds no state across runs.
type Pipeline struct {
	recognizer Recognizer
	suggester  Suggester
	logger     *zap.Logger
	opts       Options
}

// New constructs a Pipeline.
func New(recognizer Recognizer, suggester Suggester, logger *zap.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 45 * time.Second
	}
	return &Pipeline{
		recognizer: recognizer,
		suggester:  suggester,
		logger:     logger.Named("pipeline"),
		opts:       opts,
	}
}

// Run processes one batch of images in submission order and, if anything was
// recognized, asks for a recipe exactly once. Per-image rejections and
// recognition failures become warnings on that image's report and the run
// continues. A failed suggestion call becomes a run-level warning with no
// recipe. Run returns ErrNoUsableImages when no image contributed; cancelling
// ctx cancels any in-flight remote call.
func (p *Pipeline) Run(ctx context.Context, images []Image, servings int) (*Result, error) {
	result := &Result{Images: make([]ImageReport, 0, len(images))}

	var aggregated []string
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		report := p.processImage(ctx, img)
		result.Images = append(result.Images, report)
		if len(report.Ingredients) > 0 {
			aggregated = append(aggregated, report.Ingredients...)
		}
	}

	if len(aggregated) == 0 {
		return result, ErrNoUsableImages
	}
	result.Ingredients = strings.Join(aggregated, ", ")

	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()
	recipe, err := p.suggester.SuggestRecipe(callCtx, result.Ingredients, servings)
	if err != nil {
		p.logger.Warn("recipe suggestion failed", zap.Error(err))
		result.Warning = fmt.Sprintf("recipe suggestion failed: %v", err)
		return result, nil
	}
	result.Recipe = recipe

	return result, nil
}

// Recognize runs the per-image stages (gate, compress, recognize) for a
// single photo without suggesting a recipe. This backs the single-photo
// check flow.
func (p *Pipeline) Recognize(ctx context.Context, in Image) ImageReport {
	return p.processImage(ctx, in)
}

func (p *Pipeline) processImage(ctx context.Context, in Image) ImageReport {
	report := ImageReport{Name: in.Name}

	img, err := imaging.Decode(in.Data)
	if err != nil {
		report.Warning = fmt.Sprintf("could not decode image: %v", err)
		return report
	}
	img = imaging.Downscale(img, p.opts.MaxDimension)

	if verdict := imaging.Check(img, p.opts.Gate); !verdict.OK {
		p.logger.Info("image rejected by quality gate",
			zap.String("image", in.Name), zap.String("reason", verdict.Reason))
		report.Warning = verdict.Reason
		return report
	}

	compressed, err := imaging.Compress(img, p.opts.JPEGQuality)
	if err != nil {
		report.Warning = fmt.Sprintf("could not compress image: %v", err)
		return report
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()
	raw, err := p.recognizer.RecognizeIngredients(callCtx, compressed)
	if err != nil {
		p.logger.Warn("ingredient recognition failed",
			zap.String("image", in.Name), zap.Error(err))
		report.Warning = fmt.Sprintf("ingredient recognition failed: %v", err)
		return report
	}

	report.Accepted = true
	report.Ingredients = ParseIngredients(raw)
	if len(report.Ingredients) == 0 {
		report.Warning = "no ingredients recognized in this image"
	}
	return report
}

// ParseIngredients splits the model's free-text output on commas, best
// effort. The model is prompted for a comma-separated list but nothing
// guarantees it; a reply with no commas comes back as a single entry.
func ParseIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	return ingredients
}
