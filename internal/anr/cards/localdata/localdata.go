// Package localdata reads NetrunnerDB-format JSON dumps from a local
// directory, so the card pool can be loaded and refreshed without network
// access.
package localdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anrtools/anr-companion/internal/anr/cards/nrdb"
)

// File names expected inside a data directory.
const (
	CardsFile  = "cards.json"
	PacksFile  = "packs.json"
	CyclesFile = "cycles.json"
	MWLFile    = "mwl.json"
)

// Dir is a directory of card data dumps.
type Dir struct {
	path string
}

// New creates a reader over the given directory.
func New(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory being read.
func (d *Dir) Path() string {
	return d.path
}

// LoadBundle reads and converts the data dumps. cards.json and packs.json
// are required; cycles.json and mwl.json are optional.
func (d *Dir) LoadBundle() (*nrdb.Bundle, error) {
	var wireCards []nrdb.WireCard
	if err := d.readList(CardsFile, &wireCards); err != nil {
		return nil, err
	}
	var packs []nrdb.WirePack
	if err := d.readList(PacksFile, &packs); err != nil {
		return nil, err
	}

	var cycles []nrdb.WireCycle
	if err := d.readList(CyclesFile, &cycles); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	var revisions []nrdb.WireMWL
	if err := d.readList(MWLFile, &revisions); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return nrdb.BuildBundle(wireCards, packs, cycles, revisions), nil
}

// readList decodes a dump file into out, accepting either a bare JSON array
// or the API envelope form {"data": [...]}.
func (d *Dir) readList(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("parse %s data: %w", name, err)
	}
	return nil
}
