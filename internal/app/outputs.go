package app

import (
	"fmt"
	"os"

	"github.com/chrissnell/watchface/internal/render"
	"github.com/chrissnell/watchface/internal/render/epaper"
	"github.com/chrissnell/watchface/internal/render/remote"
	"github.com/chrissnell/watchface/pkg/config"
	serial "github.com/tarm/goserial"
	"go.uber.org/zap"
)

// buildOutputs opens every configured output. Outputs opened before a failure
// are closed again.
func buildOutputs(cfgs []config.OutputData, logger *zap.SugaredLogger) ([]render.Output, error) {
	var outs []render.Output
	for i, oc := range cfgs {
		out, err := openOutput(oc, logger)
		if err != nil {
			for _, o := range outs {
				o.Close()
			}
			return nil, fmt.Errorf("output %d (%s): %w", i, oc.Type, err)
		}
		logger.Infof("output %s ready", out.Name())
		outs = append(outs, out)
	}
	return outs, nil
}

func openOutput(oc config.OutputData, logger *zap.SugaredLogger) (render.Output, error) {
	switch oc.Type {
	case config.OutputPNG:
		if oc.Path == "" {
			return nil, fmt.Errorf("png output requires a path")
		}
		return render.NewPNGFile(oc.Path), nil

	case config.OutputEPaper:
		return epaper.Open(oc.SPIPort, logger)

	case config.OutputRemote:
		if oc.SerialDevice != "" {
			sc := &serial.Config{Name: oc.SerialDevice, Baud: oc.Baud}
			logger.Debugf("opening serial port %s at %d baud", oc.SerialDevice, oc.Baud)
			rwc, err := serial.OpenPort(sc)
			if err != nil {
				return nil, fmt.Errorf("failed to open serial port %s: %w", oc.SerialDevice, err)
			}
			return remote.NewStream(oc.SerialDevice, rwc), nil
		}
		if oc.Path != "" {
			f, err := os.OpenFile(oc.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, fmt.Errorf("failed to open frame log %s: %w", oc.Path, err)
			}
			return remote.NewStream(oc.Path, f), nil
		}
		return nil, fmt.Errorf("remote output requires a serial-device or a path")

	default:
		return nil, fmt.Errorf("unknown output type %q", oc.Type)
	}
}
