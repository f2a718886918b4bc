package main

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bdbarbs/geoview/internal/geo"
	"github.com/bdbarbs/geoview/internal/layers"
	"github.com/bdbarbs/geoview/internal/logger"
	"github.com/bdbarbs/geoview/internal/preview"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string `short:"i" long:"in"      env:"INPUT" description:"Input GeoJSON path or URL. Reads from stdin if empty"`
	Output  string `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format  string `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Name    string `short:"n" long:"name"    description:"Layer name used in the output. Defaults to the input file name"`
	Preview string `short:"P" long:"preview" description:"Also render a WebP preview to this path"`
	Width   int    `long:"width"  description:"Preview width in pixels"  default:"640"`
	Height  int    `long:"height" description:"Preview height in pixels" default:"400"`
}

// outputDoc is the converted form of one document: the graphic records plus
// the layer summary around them.
type outputDoc struct {
	Name     string        `json:"name" yaml:"name"`
	Count    int           `json:"count" yaml:"count"`
	Skipped  int           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Extent   *geo.Extent   `json:"extent,omitempty" yaml:"extent,omitempty"`
	Focus    *geo.Extent   `json:"focus,omitempty" yaml:"focus,omitempty"`
	Graphics []geo.Graphic `json:"graphics" yaml:"graphics"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	name, data, err := readInput(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	// Renderer: a raster surface when a preview is wanted, a sink otherwise
	var renderer layers.Renderer
	var surface *preview.Surface
	if opts.Preview != "" {
		surface = preview.NewSurface(opts.Width, opts.Height)
		renderer = surface
	} else {
		renderer = layers.RendererFunc(func([]geo.Graphic, *geo.Extent) {})
	}

	notifier := layers.NotifierFunc(func(n layers.Notice) {
		if n.Kind == layers.NoticeError {
			log.Error().Msg(n.Message)
		} else {
			log.Info().Msg(n.Message)
		}
	})

	im := layers.NewImporter(renderer, notifier, layers.NewRegistry())

	layer, err := im.Import(name, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	doc := outputDoc{Name: name, Graphics: []geo.Graphic{}}
	if layer != nil {
		doc = outputDoc{
			Name:     layer.Name,
			Count:    layer.Count,
			Skipped:  layer.Skipped,
			Extent:   layer.Extent,
			Focus:    layer.Focus(),
			Graphics: layer.Graphics,
		}
	}

	if err := writeOutput(opts, doc); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}

	if opts.Preview != "" {
		if layer == nil {
			log.Warn().Msg("No records, skipping preview")
		} else if err := writePreview(opts.Preview, surface); err != nil {
			log.Fatal().Err(err).Str("path", opts.Preview).Msg("Failed to write preview")
		}
	}
}

// readInput loads the document from a URL, a file, or stdin.
func readInput(opts Options) (string, []byte, error) {
	if strings.HasPrefix(opts.Input, "http://") || strings.HasPrefix(opts.Input, "https://") {
		name := opts.Name
		if name == "" {
			name = filepath.Base(opts.Input)
		}

		client := &http.Client{
			Transport: &http.Transport{
				TLSNextProto: make(map[string]func(string, *tls.Conn) http.RoundTripper),
			},
			Timeout: 15 * time.Second,
		}

		resp, err := client.Get(opts.Input)
		if err != nil {
			return name, nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return name, nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		return name, data, err
	}

	if opts.Input != "" {
		name := opts.Name
		if name == "" {
			name = filepath.Base(opts.Input)
		}
		data, err := os.ReadFile(opts.Input)
		return name, data, err
	}

	name := opts.Name
	if name == "" {
		name = "stdin"
	}
	data, err := io.ReadAll(os.Stdin)
	return name, data, err
}

func writeOutput(opts Options, doc outputDoc) error {
	var out []byte
	var err error

	if opts.Format == "yaml" {
		out, err = yaml.Marshal(doc)
	} else {
		out, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}

	if opts.Output == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(opts.Output, out, 0644); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Converted %d records to %s (format: %s)\n", doc.Count, opts.Output, opts.Format)
	return nil
}

func writePreview(path string, surface *preview.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return surface.EncodeWebP(f)
}
