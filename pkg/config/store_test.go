package config

import (
	"errors"
	"testing"

	"github.com/chrissnell/watchface/pkg/solar"
)

type countingProvider struct {
	face     FaceData
	readOnly bool
	saves    int
	saveErr  error
}

func (p *countingProvider) LoadConfig() (*ConfigData, error) {
	return &ConfigData{Face: p.face}, nil
}

func (p *countingProvider) GetFaceSettings() (*FaceData, error) {
	face := p.face
	return &face, nil
}

func (p *countingProvider) SaveFaceSettings(face *FaceData) error {
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.face = *face
	return nil
}

func (p *countingProvider) IsReadOnly() bool { return p.readOnly }
func (p *countingProvider) Close() error { return nil }

func TestStoreSave(t *testing.T) {
	provider := &countingProvider{face: FaceData{ClockType: "24h", Location: LocationData{Latitude: 51, TZOffset: 0}}}
	store, err := NewStore(provider)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if store.Face().Kind != DefaultKind {
		t.Errorf("kind = %q, expected default", store.Face().Kind)
	}
	if store.Location() != solar.NewLocation(51, 0, 0) {
		t.Errorf("location = %+v", store.Location())
	}

	if err := store.Save(); err != nil || provider.saves != 0 {
		t.Errorf("clean save wrote %d times, err %v", provider.saves, err)
	}

	store.SetClockType("fuzzy")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if provider.saves != 1 || provider.face.ClockType != "fuzzy" {
		t.Errorf("saves = %d, persisted %q", provider.saves, provider.face.ClockType)
	}

	// failed saves stay pending
	provider.saveErr = errors.New("disk full")
	store.SetClockType("12h")
	if err := store.Save(); err == nil {
		t.Fatal("expected the save error")
	}
	provider.saveErr = nil
	if err := store.Save(); err != nil || provider.face.ClockType != "12h" {
		t.Errorf("retry = %v, persisted %q", err, provider.face.ClockType)
	}
}

func TestStoreReadOnly(t *testing.T) {
	store, err := NewStore(&countingProvider{readOnly: true})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.SetClockType("fuzzy")
	if err := store.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Save error = %v, expected ErrReadOnly", err)
	}
	if store.ClockType() != "fuzzy" {
		t.Errorf("in-memory clock type lost: %q", store.ClockType())
	}
}

func TestStoreReload(t *testing.T) {
	provider := &countingProvider{face: FaceData{ClockType: "24h"}}
	store, err := NewStore(provider)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	provider.face.Location = LocationData{Latitude: 40.42, Longitude: -3.7, TZOffset: 2}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if store.Location() != solar.NewLocation(40.42, -3.7, 2) {
		t.Errorf("location after reload = %+v", store.Location())
	}

	provider.face.Location.Latitude = 91
	if err := store.Reload(); err == nil {
		t.Error("expected an invalid location error")
	}
}

func TestStoreWithSQLite(t *testing.T) {
	provider, _ := newTestSQLite(t)

	if _, err := NewStore(provider); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty database error = %v, expected ErrNotFound", err)
	}

	if err := provider.SaveFaceSettings(&FaceData{Kind: "analog", ClockType: "24h"}); err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(provider)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.SetClockType("fuzzy")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	face, err := provider.GetFaceSettings()
	if err != nil {
		t.Fatal(err)
	}
	if face.ClockType != "fuzzy" || face.Kind != "analog" {
		t.Errorf("persisted %+v", face)
	}
}
