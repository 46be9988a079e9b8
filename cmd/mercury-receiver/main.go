/*
DESCRIPTION
  Mercury-receiver listens for UDP frame data from a Mercury FEM, decodes it
  into complete frames, runs each frame through the processing pipeline
  (reorder, calibration, threshold, charged-sharing kernels, next-frame
  correction, histogramming) and periodically flushes the accumulated
  histogram datasets.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Mercury-receiver is the data-plane entry point: it wires together the
// buffer pool, UDP frame decoder and processing pipeline, and runs them
// until told to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stfc-aeg/mercury-detector/bufpool"
	"github.com/stfc-aeg/mercury-detector/decoder"
	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/histogram"
	"github.com/stfc-aeg/mercury-detector/mercury"
	"github.com/stfc-aeg/mercury-detector/pipeline"
	pipelineconfig "github.com/stfc-aeg/mercury-detector/pipeline/config"
)

const (
	logPath      = "/var/log/mercury-receiver/mercury-receiver.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	femPortMap := flag.String("fem-port-map", "", "FEM source-port to index map, port:idx")
	sensorsLayout := flag.String("sensors-layout", "", "sensor tile arrangement, RxC")
	listenAddr := flag.String("listen", "", "UDP address to listen on")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	verbosity := int8(logVerbosity)
	if *debug {
		verbosity = logging.Debug
	}
	logger := logging.New(verbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	cfg := pipelineconfig.New(logger)
	overrides := map[string]string{}
	if *femPortMap != "" {
		overrides[pipelineconfig.KeyFemPortMap] = *femPortMap
	}
	if *sensorsLayout != "" {
		overrides[pipelineconfig.KeySensorsLayout] = *sensorsLayout
	}
	if *listenAddr != "" {
		overrides[pipelineconfig.KeyListenAddress] = *listenAddr
	}
	cfg.Update(overrides)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	layout, err := mercury.ParseSensorLayout(cfg.SensorsLayout)
	if err != nil {
		logger.Fatal("invalid sensors layout", "error", err)
	}

	pool := bufpool.New(cfg.BufferCount, layout)
	pl := buildPipeline(cfg, layout, logger)

	ready := func(bufID int, frameNumber uint32, state mercury.FrameState) {
		buf := pool.At(bufID)
		if state == mercury.FrameComplete {
			f := &frame.Frame{
				Meta: frame.Meta{
					FrameNumber: frameNumber,
					Dims:        []int{layout.ImageHeight(), layout.ImageWidth()},
					Element:     frame.Uint16,
					Dataset:     frame.DatasetRaw,
				},
				// Copy the payload so the pool buffer can be released below
				// while the frame is still queued or being processed.
				Payload: append([]byte(nil), buf.Payload...),
			}
			select {
			case pl.Input() <- f:
			default:
				logger.Warning("pipeline input full, dropping frame", "frame", frameNumber)
			}
		} else {
			logger.Warning("frame timed out before completion", "frame", frameNumber)
		}
		pool.Release(bufID)
	}

	dec := decoder.New(pool, layout, ready, logger)
	if err := dec.Initialize(cfg.FemPortMap, cfg.FrameTimeoutMs); err != nil {
		logger.Fatal("decoder initialisation failed", "error", err)
	}
	dec.SetPacketLogging(cfg.PacketLogging)

	listener, err := decoder.Listen(cfg.ListenAddress, dec, logger)
	if err != nil {
		logger.Fatal("could not start listener", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go pl.Run(ctx)
	listener.Start()

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Debug("sd_notify READY failed", "error", err)
	} else if sent {
		logger.Debug("sent sd_notify READY")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()
	listener.Stop()
}

// buildPipeline wires the ordered stage chain described in spec.md §4 from
// the given configuration.
func buildPipeline(cfg *pipelineconfig.Config, layout mercury.SensorLayout, logger logging.Logger) *pipeline.Pipeline {
	height, width := layout.ImageHeight(), layout.ImageWidth()
	imagePixels := layout.ImagePixels()

	reorder := pipeline.NewReorderStage([]int{height, width})
	reorder.Configure(map[string]string{pipelineconfig.KeyRawData: fmt.Sprintf("%v", cfg.RawData)})

	calibration := pipeline.NewCalibrationStage(imagePixels, logger)
	calibration.Configure(map[string]string{
		pipelineconfig.KeyGradientsFilename:  cfg.GradientsFilename,
		pipelineconfig.KeyInterceptsFilename: cfg.InterceptsFilename,
	})

	threshold := pipeline.NewThresholdStage(imagePixels, logger)
	threshold.Configure(map[string]string{
		pipelineconfig.KeyThresholdMode:     cfg.ThresholdMode,
		pipelineconfig.KeyThresholdValue:    fmt.Sprintf("%v", cfg.ThresholdValue),
		pipelineconfig.KeyThresholdFilename: cfg.ThresholdFilename,
	})

	addition := pipeline.NewAdditionStage(height, width)
	addition.Configure(map[string]string{pipelineconfig.KeyPixelGridSize: fmt.Sprintf("%d", cfg.PixelGridSize)})

	discrimination := pipeline.NewDiscriminationStage(height, width)
	discrimination.Configure(map[string]string{pipelineconfig.KeyPixelGridSize: fmt.Sprintf("%d", cfg.PixelGridSize)})

	nextFrame := pipeline.NewNextFrameStage()
	nextFrame.Configure(map[string]string{pipelineconfig.KeyNextFrameCorrection: fmt.Sprintf("%v", cfg.NextFrameCorrection)})

	hist := pipeline.NewHistogramStage(imagePixels, func(acc *histogram.Accumulator) {
		logger.Info("flushing histogram datasets", "frames", acc.FramesProcessed(), "bins", acc.NumberBins())
	})
	hist.Configure(map[string]string{
		pipelineconfig.KeyBinStart:        fmt.Sprintf("%v", cfg.BinStart),
		pipelineconfig.KeyBinEnd:          fmt.Sprintf("%v", cfg.BinEnd),
		pipelineconfig.KeyBinWidth:        fmt.Sprintf("%v", cfg.BinWidth),
		pipelineconfig.KeyFlushHistograms: fmt.Sprintf("%d", cfg.FlushHistograms),
		pipelineconfig.KeyPassProcessed:   fmt.Sprintf("%v", cfg.PassProcessed),
	})

	stages := []pipeline.Stage{reorder, calibration, threshold, addition, discrimination, nextFrame, hist}
	return pipeline.New(stages, cfg.BufferCount, logger)
}
