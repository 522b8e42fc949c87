package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/webrtcvad/pkg/voicegate"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/implementations/dynamic"
	_ "github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/implementations/fvad"
)

func main() {
	f, err := parseFlags(os.Args[1:])
	assertNoError(err)

	if f.NArg() != 1 {
		panic(fmt.Errorf("expected exactly one argument: <input-file>"))
	}

	l := logrus.Default().WithLevel(f.LogLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if f.PprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(f.PprofAddr, nil)) })
	}

	cfg, err := f.config()
	assertNoError(err)
	logger.Debugf(ctx, "config: %#+v", cfg)

	opts := webrtcvad.Options{webrtcvad.WithConfig(cfg.Config)}
	if cfg.Library != "" {
		engine, err := dynamic.Load(ctx, cfg.Library)
		assertNoError(err)
		opts = append(opts, webrtcvad.WithEngine(engine))
	}

	detector, err := webrtcvad.New(ctx, opts...)
	assertNoError(err)
	defer detector.Close()

	input, err := os.Open(f.Arg(0))
	assertNoError(err)
	defer input.Close()

	var s summary
	if f.OutputPath != "" {
		s, err = gate(ctx, detector, input, f.OutputPath, cfg.Hangover)
	} else {
		s, err = classify(ctx, detector, input, os.Stdout, f.Quiet)
	}
	assertNoError(err)
	fmt.Println(s.String(cfg.FrameLength))
}

type summary struct {
	FramesTotal  uint64
	FramesVoiced uint64
}

func (s summary) String(frameLength webrtcvad.FrameLength) string {
	return fmt.Sprintf(
		"frames: %d, voiced: %d (%v of %v)",
		s.FramesTotal, s.FramesVoiced,
		time.Duration(s.FramesVoiced)*frameLength.Duration(),
		time.Duration(s.FramesTotal)*frameLength.Duration(),
	)
}

// classify prints "<offset> speech|silence" for every complete frame of r.
func classify(
	ctx context.Context,
	detector *webrtcvad.Detector,
	r io.Reader,
	w io.Writer,
	quiet bool,
) (summary, error) {
	cfg := detector.Config()
	frame := make([]byte, cfg.RequiredBytes())
	var s summary
	for {
		_, err := io.ReadFull(r, frame)
		switch err {
		case nil:
		case io.EOF:
			return s, nil
		case io.ErrUnexpectedEOF:
			logger.Debugf(ctx, "dropping the trailing incomplete frame")
			return s, nil
		default:
			return s, fmt.Errorf("unable to read frame #%d: %w", s.FramesTotal, err)
		}

		isSpeech, err := detector.HasSpeech(ctx, frame)
		if err != nil {
			return s, fmt.Errorf("unable to classify frame #%d: %w", s.FramesTotal, err)
		}
		offset := time.Duration(s.FramesTotal) * cfg.FrameLength.Duration()
		s.FramesTotal++
		result := "silence"
		if isSpeech {
			s.FramesVoiced++
			result = "speech"
		}
		if !quiet {
			if _, err := fmt.Fprintf(w, "%v %s\n", offset, result); err != nil {
				return s, err
			}
		}
	}
}

// gate writes the voiced frames of r to the file at outputPath.
func gate(
	ctx context.Context,
	detector *webrtcvad.Detector,
	r io.Reader,
	outputPath string,
	hangover uint,
) (summary, error) {
	output, err := os.Create(outputPath)
	if err != nil {
		return summary{}, fmt.Errorf("unable to create '%s': %w", outputPath, err)
	}
	defer output.Close()

	wc := datacounter.NewWriterCounter(output)
	g := voicegate.New(ctx, r, detector, hangover)
	_, err = io.Copy(wc, g)
	logger.Infof(ctx, "written: %d", wc.Count())
	stats := g.Stats()
	s := summary{FramesTotal: stats.FramesTotal, FramesVoiced: stats.FramesVoiced}
	if err != nil {
		return s, fmt.Errorf("unable to copy the voiced frames: %w", err)
	}
	return s, output.Close()
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
