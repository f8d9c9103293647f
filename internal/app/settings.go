package app

import (
	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/pkg/config"
	"github.com/chrissnell/watchface/pkg/solar"
	"go.uber.org/zap"
)

// faceSettings adapts the config store's string-typed settings to face.Settings
type faceSettings struct {
	store  *config.Store
	logger *zap.SugaredLogger
}

func (s *faceSettings) Location() solar.Location {
	return s.store.Location()
}

func (s *faceSettings) ClockType() face.ClockType {
	ct, err := face.ParseClockType(s.store.ClockType())
	if err != nil {
		s.logger.Warnf("%v; using %v", err, face.ClockH24)
		return face.ClockH24
	}
	return ct
}

func (s *faceSettings) SetClockType(ct face.ClockType) {
	s.store.SetClockType(ct.String())
}

func (s *faceSettings) Save() error {
	return s.store.Save()
}
