package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/slidemorph/internal/compositor"
	"github.com/ivlev/slidemorph/internal/config"
	"github.com/ivlev/slidemorph/internal/overlay"
	"github.com/ivlev/slidemorph/internal/perspective"
	"github.com/ivlev/slidemorph/internal/raster"
	"github.com/ivlev/slidemorph/internal/sequence"
	"github.com/ivlev/slidemorph/internal/source"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	inputPtr := flag.String("input", "", "PDF, image file or image directory (default: newest usable file in input/)")
	outputPtr := flag.String("output", "", "Directory for the exported frames")
	transitionPtr := flag.String("transition", "", "Transition: slide-left, slide-right, slide-top, slide-bottom, box-in, box-out, fade-to-black, cross-fade, page-turn-h, page-turn-v, shutter-open, blur-fade, cube-rotate, ring, luma-wipe, fly-away")
	framesPtr := flag.Int("frames", 0, "Frames per transition (clamped to 10..1000)")
	widthPtr := flag.Int("width", 0, "Canvas width")
	heightPtr := flag.Int("height", 0, "Canvas height")
	presetPtr := flag.String("preset", "", "Canvas preset: 16:9, 9:16, 4:5")
	workersPtr := flag.Int("workers", 0, "Pixel workers (0 = hardware parallelism)")
	dpiPtr := flag.Int("dpi", 150, "Rasterization DPI for PDF pages")
	qrPtr := flag.String("qr", "", "Stamp a QR code with this text on every frame")
	configPtr := flag.String("config", "", "Load render settings from a YAML file")
	writeConfigPtr := flag.String("write-config", "", "Write the effective settings to a YAML file and exit")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	if *verbosePtr {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPtr).Msg("cannot load config")
		}
		cfg = loaded
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "transition":
			cfg.Transition = *transitionPtr
		case "frames":
			cfg.FrameCount = *framesPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "output":
			cfg.OutputDir = *outputPtr
		case "qr":
			cfg.QRText = *qrPtr
		}
	})
	if err := cfg.ApplyPreset(*presetPtr); err != nil {
		log.Fatal().Err(err).Msg("bad preset")
	}
	cfg.ApplyDefaults()

	if *writeConfigPtr != "" {
		if err := config.Save(cfg, *writeConfigPtr); err != nil {
			log.Fatal().Err(err).Msg("cannot write config")
		}
		log.Info().Str("path", *writeConfigPtr).Msg("config written")
		return
	}

	kind, err := compositor.ParseKind(cfg.Transition)
	if err != nil {
		log.Fatal().Err(err).Msg("bad transition")
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := source.FindLatest("input")
		if err != nil {
			log.Fatal().Err(err).Msg("no input; pass -input or put a PDF/image in input/")
		}
		inputPath = latest
		log.Info().Str("path", inputPath).Msg("picked newest input")
	}

	src, err := source.Open(inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", inputPath).Msg("cannot open source")
	}
	defer src.Close()

	pageCount := src.PageCount()
	if pageCount < 2 {
		log.Fatal().Int("pages", pageCount).Msg("need at least two pages/images to transition between")
	}

	comp := compositor.New(compositor.Options{
		CanvasWidth:   cfg.Width,
		CanvasHeight:  cfg.Height,
		MaxBlurRadius: cfg.MaxBlurRadius,
		Cube:          perspective.CubeOptions{Strips: cfg.CubeStrips, FOV: cfg.CubeFOV},
		Ring:          perspective.RingOptions{Radius: cfg.RingRadius, DepthConst: cfg.RingDepth},
		Workers:       cfg.Workers,
	})
	defer comp.Close()

	writer, err := newFrameWriter(cfg, (pageCount-1)*(cfg.FrameCount+1))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot prepare output")
	}

	renderer := sequence.NewRenderer(comp, writer, cfg.EncodeWorkers)

	log.Info().
		Str("transition", kind.String()).
		Int("pages", pageCount).
		Int("frames_per_pair", cfg.FrameCount+1).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("rendering")

	start := time.Now()
	base := 0
	var prev *raster.Buffer
	for i := 0; i < pageCount; i++ {
		cur, err := src.RenderPage(i, *dpiPtr)
		if err != nil {
			log.Fatal().Err(err).Int("page", i).Msg("cannot render page")
		}
		if prev != nil {
			base, err = renderer.Render(kind, prev, cur, cfg.FrameCount, base)
			if err != nil {
				log.Fatal().Err(err).Int("pair", i-1).Msg("export failed")
			}
			log.Debug().Int("pair", i-1).Int("next_frame", base).Msg("pair done")
		}
		prev = cur
	}

	elapsed := time.Since(start)
	log.Info().
		Int("frames", base).
		Dur("elapsed", elapsed).
		Float64("fps", float64(base)/elapsed.Seconds()).
		Str("dir", cfg.OutputDir).
		Msg("done")
}

// frameWriter encodes frames as zero-padded PNG files. Encode runs from the
// renderer's encode workers; each call receives its own frame copy.
type frameWriter struct {
	dir   string
	pad   int
	badge *overlay.Badge
}

func newFrameWriter(cfg config.Config, totalFrames int) (*frameWriter, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, err
	}
	pad := len(fmt.Sprint(totalFrames - 1))
	if pad < 3 {
		pad = 3
	}
	w := &frameWriter{dir: cfg.OutputDir, pad: pad}
	if cfg.QRText != "" {
		badge, err := overlay.NewBadge(cfg.QRText, 120)
		if err != nil {
			return nil, fmt.Errorf("qr badge: %w", err)
		}
		w.badge = badge
	}
	return w, nil
}

func (w *frameWriter) Encode(index int, frame *raster.Buffer) error {
	if w.badge != nil {
		w.badge.Stamp(frame)
	}
	name := fmt.Sprintf("frame_%0*d.png", w.pad, index)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, frame.RGBA())
}
